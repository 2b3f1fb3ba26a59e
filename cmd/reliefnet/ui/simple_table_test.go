package ui

import (
	"strings"
	"testing"
)

func TestSimpleTable(t *testing.T) {
	t.Parallel()

	table := NewSimpleTable("Relief Inventory", []string{"ITEM", "CATEGORY", "QTY"})
	table.AlignRight(2)
	table.AddRow("Water Bottles", "FOOD", "120")
	table.AddRow("First Aid Kits", "MEDICAL", "35")

	out := table.View(DefaultStyles())

	for _, want := range []string{"Relief Inventory", "ITEM", "Water Bottles", "MEDICAL", "120"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q", want)
		}
	}
}

func TestSimpleTableEmpty(t *testing.T) {
	t.Parallel()

	table := NewSimpleTable("Relief Inventory", []string{"ITEM", "QTY"})
	if out := table.View(DefaultStyles()); out != "" {
		t.Errorf("empty table without placeholder should render nothing, got %q", out)
	}

	table.Empty = "No resources recorded yet."
	out := table.View(DefaultStyles())
	if !strings.Contains(out, "No resources recorded yet.") {
		t.Errorf("empty table should render placeholder, got %q", out)
	}
}
