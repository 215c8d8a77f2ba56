package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func init() {
	Register(&htmlSource{})
}

const backupMarker = "Последний подкреп"

type htmlSource struct{}

func (s *htmlSource) ID() string { return "html" }
func (s *htmlSource) Description() string {
	return "saved company page (local file or http(s) URL)"
}

func (s *htmlSource) Fetch(ctx context.Context, location string, opts Options) (*Snapshot, error) {
	data, err := readLocation(ctx, location, opts)
	if err != nil {
		return nil, err
	}
	text, err := decode(data, opts.Encoding)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	names, backups := leaderCards(doc)
	return &Snapshot{
		Source:  s.ID(),
		Origin:  location,
		Notes:   notesText(doc),
		Leaders: names,
		Backups: backups,
	}, nil
}

// leaderCards returns each leader card's name and its last-backup line.
func leaderCards(doc *goquery.Document) (names, backups []string) {
	doc.Find("div.text-xs.opacity-70").Each(func(_ int, node *goquery.Selection) {
		raw := strings.TrimSpace(node.Text())
		if !strings.Contains(raw, backupMarker) {
			return
		}
		name := strings.TrimSpace(cardOf(node).Find("div.font-medium").First().Text())
		if name == "" {
			return
		}
		names = append(names, name)
		backups = append(backups, raw)
	})
	return names, backups
}

// cardOf finds the nearest ancestor div holding a div.font-medium, then
// falls back to the nearest .flex div and finally the parent div.
func cardOf(node *goquery.Selection) *goquery.Selection {
	card := node.ParentsFiltered("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("div.font-medium").Length() > 0
	}).First()
	if card.Length() > 0 {
		return card
	}
	if card = node.ParentsFiltered("div.flex").First(); card.Length() > 0 {
		return card
	}
	return node.ParentsFiltered("div").First()
}

func notesText(doc *goquery.Document) string {
	sel := doc.Find("textarea#js-textarea-notes")
	if sel.Length() == 0 {
		sel = doc.Find(`textarea[data-notes-target="input"]`)
	}
	if sel.Length() == 0 {
		return ""
	}
	return sel.First().Text()
}
