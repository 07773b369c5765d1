package seo

import (
	"encoding/json"
	"testing"
)

func TestProductWithOffer(t *testing.T) {
	m := Product("Knife", "Sharp", "https://example.com/", "https://example.com/a.jpg", "VX-1", "Victorinox", Offer{
		Price:    "5.70",
		Currency: "USD",
	})

	var decoded map[string]any
	if err := json.Unmarshal([]byte(JSON(m)), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["@type"] != "Product" {
		t.Fatalf("unexpected type %v", decoded["@type"])
	}
	offer, ok := decoded["offers"].(map[string]any)
	if !ok {
		t.Fatalf("expected offers object, got %T", decoded["offers"])
	}
	if offer["price"] != "5.70" || offer["priceCurrency"] != "USD" {
		t.Fatalf("unexpected offer %v", offer)
	}
	brand, _ := decoded["brand"].(map[string]any)
	if brand["name"] != "Victorinox" {
		t.Fatalf("unexpected brand %v", decoded["brand"])
	}
}

func TestProductWithoutOffer(t *testing.T) {
	m := Product("Knife", "Sharp", "", "", "", "", Offer{})
	if _, ok := m["offers"]; ok {
		t.Fatal("offers must be omitted without a price")
	}
	if _, ok := m["url"]; ok {
		t.Fatal("url must be omitted when empty")
	}
}

func TestNewMeta(t *testing.T) {
	m := NewMeta("T", "D", "https://example.com/", "https://example.com/i.jpg")
	if m.OG.Title != "T" || m.OG.URL != "https://example.com/" || m.Twitter.Image != "https://example.com/i.jpg" {
		t.Fatalf("unexpected meta %+v", m)
	}
}
