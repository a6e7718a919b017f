package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const dealsFixture = `<html><body>
<div class="kaufland_o-OfferTile__content">
  <div class="kaufland_o-OfferTile__title"> Piept de pui </div>
  <div class="kaufland_o-OfferTile__price">17,99</div>
  <img src="https://media.kaufland.ro/pui.jpg">
</div>
<div class="kaufland_o-OfferTile__content">
  <div class="kaufland_o-OfferTile__title">Oferta fara pret</div>
  <img src="https://media.kaufland.ro/x.jpg">
</div>
<div class="kaufland_o-OfferTile__content">
  <div class="kaufland_o-OfferTile__title">Lapte 1.5%</div>
  <div class="kaufland_o-OfferTile__price">5,49</div>
  <img src="https://media.kaufland.ro/lapte.jpg">
</div>
<div class="kaufland_o-OfferTile__content">
  <div class="kaufland_o-OfferTile__title">Unt 80%</div>
  <div class="kaufland_o-OfferTile__price">9,29</div>
  <img src="https://media.kaufland.ro/unt.jpg">
</div>
</body></html>`

func TestParseDeals(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(dealsFixture))
	if err != nil {
		t.Fatal(err)
	}

	deals := ParseDeals(doc, 0)
	if len(deals) != 3 {
		t.Fatalf("got %d deals, want 3 (incomplete tile skipped)", len(deals))
	}

	first := deals[0]
	if first.Title != "Piept de pui" {
		t.Errorf("title = %q, want trimmed %q", first.Title, "Piept de pui")
	}
	if first.Price != "17,99" {
		t.Errorf("price = %q, want 17,99", first.Price)
	}
	if first.ImageURL != "https://media.kaufland.ro/pui.jpg" {
		t.Errorf("image = %q", first.ImageURL)
	}
	if first.Store != "Kaufland" {
		t.Errorf("store = %q, want Kaufland", first.Store)
	}
}

func TestParseDealsLimit(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(dealsFixture))
	if err != nil {
		t.Fatal(err)
	}

	if deals := ParseDeals(doc, 2); len(deals) != 2 {
		t.Errorf("got %d deals, want limit of 2", len(deals))
	}
}
