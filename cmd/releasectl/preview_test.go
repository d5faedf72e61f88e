package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tanamoe/release-bot/testutil"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPreviewPrintsSummary(t *testing.T) {
	m := testutil.NewMockCatalogServer(t)
	m.SetRecords(
		testutil.NewCatalogRecord("r1", "Alpha", "", 10010, 50000, "pubA", "Kim Đồng", "kim-dong", "2024-06-01 00:00:00.000Z"),
		testutil.NewCatalogRecord("r2", "Beta", "Special", 10021, 115000, "pubA", "Kim Đồng", "kim-dong", "2024-06-01 00:00:00.000Z"),
	)
	t.Setenv("CATALOG_URL", m.URL)
	t.Setenv("CATALOG_TOKEN", "tok")
	t.Setenv("TIMEZONE", "UTC")

	out, err := runCLI(t, "preview", "--date", "01-06-2024")
	if err != nil {
		t.Fatalf("preview: %v\n%s", err, out)
	}
	for _, want := range []string{"Thứ Bảy, 1 tháng 6, 2024", "Kim Đồng", "Alpha\nBeta (Special)", "165.000 ₫", "2 items"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPreviewJSON(t *testing.T) {
	m := testutil.NewMockCatalogServer(t)
	m.SetRecords(testutil.NewCatalogRecord("r1", "Alpha", "", 10010, 50000, "pubA", "IPM", "ipm", "2024-06-01 00:00:00.000Z"))
	t.Setenv("CATALOG_URL", m.URL)
	t.Setenv("CATALOG_TOKEN", "tok")
	t.Setenv("TIMEZONE", "UTC")

	out, err := runCLI(t, "preview", "--json", "-d", "1/6/2024")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	var got struct {
		TotalLabel string
		Fields     []struct{ Name, Value string }
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.TotalLabel != "50.000 ₫" || len(got.Fields) != 1 || got.Fields[0].Name != "IPM" {
		t.Errorf("unexpected summary: %+v", got)
	}
}

func TestPreviewEmptyDay(t *testing.T) {
	m := testutil.NewMockCatalogServer(t)
	t.Setenv("CATALOG_URL", m.URL)
	t.Setenv("CATALOG_TOKEN", "tok")

	out, err := runCLI(t, "preview", "--date", "02-06-2024")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, "no releases scheduled") {
		t.Errorf("output = %q", out)
	}
}

func TestPreviewInvalidDate(t *testing.T) {
	t.Setenv("CATALOG_URL", "http://127.0.0.1:1")
	t.Setenv("CATALOG_TOKEN", "tok")
	if _, err := runCLI(t, "preview", "--date", "31-02-2024"); err == nil {
		t.Fatal("expected invalid date error")
	}
}

func TestPreviewRequiresCatalog(t *testing.T) {
	t.Setenv("CATALOG_URL", "")
	t.Setenv("CATALOG_TOKEN", "")
	if _, err := runCLI(t, "preview"); err == nil {
		t.Fatal("expected missing catalog env error")
	}
}
