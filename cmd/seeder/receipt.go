// cmd/seeder/receipt.go
package main

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ammerola/pantry-be/internal/core/domain"
)

var (
	headerRe   = regexp.MustCompile(`(?i)(QTY.*(ITEM|DESCRIPTION)|ITEM.*PRICE)`)
	footerRe   = regexp.MustCompile(`(?i)^(SUB\s*TOTAL|TOTAL|BALANCE DUE|TAX)\b`)
	dashRe     = regexp.MustCompile(`-{5,}`)
	priceRe    = regexp.MustCompile(`\$?\s*\d{1,3}(?:,\d{3})*\.\d{2}\s*[A-Z]?\s*$`)
	quantityRe = regexp.MustCompile(`^(\d{1,3})\s*(?:[xX@]\s*)?\s+(.+)$`)
	skuRe      = regexp.MustCompile(`\s+\d{5,}$`)
)

// CategoryGuesser picks a category from keywords in an item name.
type CategoryGuesser struct {
	keywords map[string][]string
	fallback string
}

// NewCategoryGuesser covers the default pantry categories. Names matching
// nothing fall back to Food since most receipt lines are groceries.
func NewCategoryGuesser() *CategoryGuesser {
	return &CategoryGuesser{
		keywords: map[string][]string{
			domain.CategoryFood: {"rice", "bean", "pasta", "flour", "sugar", "salt", "oil",
				"milk", "cheese", "egg", "bread", "cereal", "soup", "sauce", "coffee", "tea",
				"apple", "banana", "tomato", "potato", "onion", "chicken", "tuna", "oat"},
			domain.CategoryElectronics: {"battery", "batteries", "charger", "cable", "usb",
				"bulb", "headphone", "radio", "adapter", "remote", "phone"},
			domain.CategoryClothing: {"shirt", "sock", "glove", "hat", "jacket", "pants",
				"scarf", "shoe", "apron"},
			domain.CategoryBooks: {"book", "cookbook", "magazine", "novel", "journal",
				"notebook", "guide"},
		},
		fallback: domain.CategoryFood,
	}
}

// Guess returns the category with the most keyword hits.
func (g *CategoryGuesser) Guess(name string) string {
	lower := strings.ToLower(name)

	best, bestScore := g.fallback, 0
	for _, category := range domain.DefaultCategories() {
		score := 0
		for _, kw := range g.keywords[category] {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = category, score
		}
	}
	return best
}

// ReceiptParser turns receipt text into pantry items.
type ReceiptParser struct {
	guesser *CategoryGuesser
	logger  *slog.Logger
}

func NewReceiptParser(logger *slog.Logger) *ReceiptParser {
	return &ReceiptParser{
		guesser: NewCategoryGuesser(),
		logger:  logger,
	}
}

// ParseFile reads the text of every page of a PDF receipt.
func (p *ReceiptParser) ParseFile(path string) ([]domain.Item, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.Warn("failed to extract text from page",
				slog.Int("page", pageNum),
				"err", err)
			continue
		}
		lines = append(lines, strings.Split(text, "\n")...)
	}

	return p.ParseLines(lines), nil
}

// ParseLines extracts one item per priced line. Description lines without a
// price are buffered and joined onto the next priced line. Repeated names
// are merged by adding their quantities.
func (p *ReceiptParser) ParseLines(lines []string) []domain.Item {
	start := 0
	for idx, line := range lines {
		if headerRe.MatchString(line) {
			start = idx + 1
			break
		}
	}

	items := make([]domain.Item, 0)
	index := make(map[string]int)
	var pending []string

	add := func(desc string) {
		quantity := 1
		if m := quantityRe.FindStringSubmatch(desc); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				quantity, desc = n, m[2]
			}
		}
		name := cleanName(desc)
		if name == "" {
			return
		}

		if pos, ok := index[strings.ToLower(name)]; ok {
			items[pos].Quantity += quantity
			return
		}
		index[strings.ToLower(name)] = len(items)
		items = append(items, domain.Item{
			Name:     name,
			Category: p.guesser.Guess(name),
			Quantity: quantity,
		})
	}

	for _, raw := range lines[start:] {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if footerRe.MatchString(line) {
			break
		}

		line = strings.TrimSpace(dashRe.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}

		if priceRe.MatchString(line) {
			desc := strings.TrimSpace(priceRe.ReplaceAllString(line, ""))
			desc = skuRe.ReplaceAllString(desc, "")
			add(strings.TrimSpace(strings.Join(append(pending, desc), " ")))
			pending = pending[:0]
			continue
		}

		pending = append(pending, line)
	}

	p.logger.Debug("parsed receipt", slog.Int("items", len(items)))
	return items
}

func cleanName(desc string) string {
	desc = strings.Join(strings.Fields(desc), " ")
	desc = strings.Trim(desc, " -*#")
	if len(desc) > 100 {
		desc = strings.TrimSpace(desc[:100])
	}
	return strings.ToLower(desc)
}
