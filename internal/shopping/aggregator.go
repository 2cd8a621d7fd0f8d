package shopping

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/serroba/foodgram-go/internal/apperror"
	"github.com/serroba/foodgram-go/internal/cache"
	"go.uber.org/zap"
)

// DefaultTTL is how long an exported list stays cached.
const DefaultTTL = 5 * time.Minute

// Aggregator sums the cart's ingredients into a shopping list.
type Aggregator struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewAggregator creates an Aggregator that caches documents for ttl.
func NewAggregator(source Source, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		source: source,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// BuildExport returns the shopping list document of userID.
// A document cached within the TTL is returned as is, so cart edits made in
// that window are not reflected.
func (a *Aggregator) BuildExport(ctx context.Context, userID int64) (*Document, error) {
	key := cacheKey(userID)

	if doc, ok := a.fromCache(ctx, key, userID); ok {
		return doc, nil
	}

	items, err := a.source.CartItems(ctx, userID)
	if err != nil {
		a.logger.Error("failed to read shopping cart",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("%w: read cart of user %d: %w", apperror.ErrInternal, userID, err)
	}

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	content, err := Render(Aggregate(items))
	if err != nil {
		return nil, fmt.Errorf("%w: render shopping list: %w", apperror.ErrInternal, err)
	}

	doc := &Document{
		Content:     content,
		ContentType: ContentType,
		Filename:    Filename,
	}

	a.store(ctx, key, userID, doc)

	return doc, nil
}

// Aggregate groups items by exact name, sums their amounts and orders the
// result by name. Each line keeps the unit of the first item in its group.
func Aggregate(items []Item) []Line {
	index := make(map[string]int, len(items))
	lines := make([]Line, 0, len(items))

	for _, item := range items {
		if i, ok := index[item.Name]; ok {
			lines[i].TotalAmount += item.Amount

			continue
		}

		index[item.Name] = len(lines)
		lines = append(lines, Line{Name: item.Name, Unit: item.Unit, TotalAmount: item.Amount})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Name < lines[j].Name
	})

	return lines
}

// Render writes lines as a tab-delimited table with a title and header row.
func Render(lines []Line) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	w.Comma = '\t'

	records := make([][]string, 0, len(lines)+2)
	records = append(records,
		[]string{"Shopping list"},
		[]string{"Ingredient", "Amount", "Unit"},
	)

	for _, line := range lines {
		records = append(records, []string{
			line.Name,
			strconv.FormatInt(line.TotalAmount, 10),
			line.Unit,
		})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (a *Aggregator) fromCache(ctx context.Context, key string, userID int64) (*Document, bool) {
	data, err := a.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			a.logger.Warn("shopping list cache read failed",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}

		return nil, false
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		a.logger.Warn("ignoring malformed shopping list cache entry",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return nil, false
	}

	return &doc, true
}

func (a *Aggregator) store(ctx context.Context, key string, userID int64, doc *Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		a.logger.Warn("failed to encode shopping list", zap.Error(err))

		return
	}

	if err := a.cache.Set(ctx, key, data, a.ttl); err != nil {
		a.logger.Warn("failed to cache shopping list",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

func cacheKey(userID int64) string {
	return "shopping_cart:" + strconv.FormatInt(userID, 10)
}
