package page

import (
	"fmt"
	"testing"

	"github.com/muurk/ewcportal/internal/urls"
)

func TestPage_UpsertKeepsOrder(t *testing.T) {
	p := New("/", nil)
	p.Upsert(Element{ID: "a", Content: "1"})
	p.Upsert(Element{ID: "b", Content: "2"})
	p.Upsert(Element{ID: "a", Content: "3"})

	ids := p.IDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("IDs() = %v, want [a b]", ids)
	}
	el, _ := p.Get("a")
	if el.Content != "3" {
		t.Errorf("a.Content = %q, want 3", el.Content)
	}
}

func TestPage_SetTextByKind(t *testing.T) {
	p := New("/", nil)
	p.Upsert(Element{ID: "label"})
	p.Upsert(Element{ID: "button", Kind: KindInput, Value: "Save"})

	p.SetText("label", "Netzwerk")
	p.SetText("button", "Speichern")

	label, _ := p.Get("label")
	button, _ := p.Get("button")
	if label.Content != "Netzwerk" || label.Value != "" {
		t.Errorf("label = %+v", label)
	}
	if button.Value != "Speichern" || button.Content != "" {
		t.Errorf("button = %+v", button)
	}
	if button.Text() != "Speichern" {
		t.Errorf("button.Text() = %q", button.Text())
	}
}

func TestPage_MissingElementIsNoop(t *testing.T) {
	p := New("/", nil)
	before := p.Version()

	if p.SetContent("nope", "x") || p.SetValue("nope", "x") || p.SetText("nope", "x") {
		t.Error("mutating a missing element should report false")
	}
	if p.Remove("nope") || p.ViewPassword("nope") {
		t.Error("missing element operations should report false")
	}
	if p.Version() != before {
		t.Error("no-op operations must not bump the version")
	}
}

func TestPage_GetReturnsCopy(t *testing.T) {
	p := New("/", nil)
	p.Upsert(Element{ID: "a", Classes: []string{"x"}})

	el, _ := p.Get("a")
	el.Content = "changed"
	el.Classes[0] = "y"

	again, _ := p.Get("a")
	if again.Content != "" || again.Classes[0] != "x" {
		t.Errorf("Get() leaked internal state: %+v", again)
	}
}

func TestPage_RemoveAndPrefix(t *testing.T) {
	p := New("/", nil)
	p.Upsert(Element{ID: "nav_wifi"})
	p.Upsert(Element{ID: "keep"})
	p.Upsert(Element{ID: "nav_info"})

	if n := p.RemovePrefix(NavPrefix); n != 2 {
		t.Errorf("RemovePrefix() = %d, want 2", n)
	}
	if ids := p.IDs(); len(ids) != 1 || ids[0] != "keep" {
		t.Errorf("IDs() = %v, want [keep]", ids)
	}
}

func TestPage_ViewPassword(t *testing.T) {
	p := NewWiFiSetup(nil)

	p.ViewPassword(IDPassphrase)
	el, _ := p.Get(IDPassphrase)
	if el.Type != "text" {
		t.Errorf("Type = %q after first toggle, want text", el.Type)
	}

	p.ViewPassword(IDPassphrase)
	el, _ = p.Get(IDPassphrase)
	if el.Type != "password" {
		t.Errorf("Type = %q after second toggle, want password", el.Type)
	}
}

func TestPage_SwitchVisibility(t *testing.T) {
	p := New("/", nil)
	p.Upsert(Element{ID: "ip", Kind: KindInput, Classes: []string{"static"}})
	p.Upsert(Element{ID: "ip_label", Classes: []string{"static"}})
	p.Upsert(Element{ID: "other"})

	if n := p.SwitchVisibility("static", false); n != 2 {
		t.Fatalf("SwitchVisibility() = %d, want 2", n)
	}
	ip, _ := p.Get("ip")
	label, _ := p.Get("ip_label")
	if !ip.Hidden || !ip.Disabled {
		t.Errorf("hidden input should be disabled: %+v", ip)
	}
	if !label.Hidden || label.Disabled {
		t.Errorf("hidden label should not be disabled: %+v", label)
	}

	p.SwitchVisibility("static", true)
	ip, _ = p.Get("ip")
	if ip.Hidden || ip.Disabled {
		t.Errorf("shown input should be enabled: %+v", ip)
	}
}

func TestRecorder(t *testing.T) {
	var seen string
	rec := NewRecorder(func(target string) { seen = target })
	p := NewStateWidget(rec)

	p.Navigate(urls.InfoPage)

	if got := rec.Targets(); len(got) != 1 || got[0] != urls.InfoPage {
		t.Errorf("Targets() = %v", got)
	}
	if seen != urls.InfoPage {
		t.Errorf("callback saw %q", seen)
	}
	if p.Has(IDSSIDList) {
		t.Error("state widget must not contain the network list")
	}
}

func TestPage_UpsertAfter(t *testing.T) {
	p := New("/", nil)
	p.Upsert(Element{ID: "list"})
	p.Upsert(Element{ID: "footer"})

	p.UpsertAfter("list", Element{ID: "item_0"})
	p.UpsertAfter("item_0", Element{ID: "item_1"})
	p.UpsertAfter("missing", Element{ID: "tail"})

	want := "[list item_0 item_1 footer tail]"
	if got := fmt.Sprint(p.IDs()); got != want {
		t.Errorf("IDs() = %s, want %s", got, want)
	}
}
