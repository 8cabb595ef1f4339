package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guttosm/hffactors/internal/domain/models"
)

const (
	ordersHeader = "Code_Mkt,Qdate,Qtime,OrderRecNo,OrderPr,OrderVol,OrderKind,FunctionCode\n"
	tradesHeader = "Code_Mkt,Qdate,Qtime,RecNo,BuyOrderRecNo,SellOrderRecNo,Tprice,Tvolume,FunctionCode,Trdirec\n"
	gridHeader   = "Code_Mkt,Qdate,Qtime\n"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return p
}

func TestLoadOrders_TableDriven(t *testing.T) {
	dir := t.TempDir()
	validRow := "000001.SZ,2023-03-01,09:30:00,11,10.50,100,0,1\n"

	cases := []struct {
		name     string
		content  string
		wantErr  string
		wantRows int
	}{
		{name: "ok single row", content: ordersHeader + validRow, wantRows: 1},
		{name: "columns in any order", content: "FunctionCode,OrderVol,OrderPr,OrderRecNo,Qtime,Qdate,Code_Mkt\n2,5,1.5,3,09:30:01,20230301,A\n", wantRows: 1},
		{name: "missing column", content: "Code_Mkt,Qdate\nA,2023-03-01\n", wantErr: "missing columns"},
		{name: "empty file", content: "", wantErr: "empty file"},
		{name: "short row", content: ordersHeader + "A,2023-03-01\n", wantErr: "invalid column count on line 2"},
		{name: "invalid price", content: ordersHeader + "A,2023-03-01,09:30:00,1,abc,100,0,1\n", wantErr: "line 2: invalid OrderPr"},
		{name: "invalid time", content: ordersHeader + "A,2023-03-01,25:00:00,1,1,100,0,1\n", wantErr: "invalid Qtime"},
		{name: "empty numeric tolerated", content: ordersHeader + "A,2023-03-01,09:30:00,,,,,1\n", wantRows: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, dir, "orders.csv", tc.content)
			got, err := LoadOrders(context.Background(), path)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("want error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(got) != tc.wantRows {
				t.Fatalf("rows: want %d got %d", tc.wantRows, len(got))
			}
		})
	}
}

func TestLoadOrders_Fields(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "orders.csv", ordersHeader+"000001.SZ,2023-03-01,09:30:00.250,11,10.50,100,U,2\n")

	got, err := LoadOrders(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := models.Order{
		Instrument: "000001.SZ", Date: 20230301, Second: 9*3600 + 30*60, RecNo: 11,
		Price: 10.50, Volume: 100, Kind: "U", FunctionCode: models.OrderSell,
	}
	if got[0] != want {
		t.Fatalf("order mismatch:\nwant %+v\ngot  %+v", want, got[0])
	}
}

func TestLoadTrades(t *testing.T) {
	dir := t.TempDir()
	content := tradesHeader +
		"A,2023-03-01,09:30:00,1,11,0,10.5,200,C,\n" +
		"A,2023-03-01,09:30:01,2,11,12,10.6,100,F,5\n"

	got, err := LoadTrades(context.Background(), writeTempFile(t, dir, "trades.csv", content))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d", len(got))
	}
	ref, ok := got[0].CancelledOrder()
	if !ok || ref.Side != models.SideBuy || ref.RecNo != 11 {
		t.Fatalf("unexpected cancel reference %+v ok=%v", ref, ok)
	}
	if !got[1].IsFill() || !got[1].BuyerInitiated() {
		t.Fatalf("unexpected fill %+v", got[1])
	}

	ambiguous := tradesHeader + "A,2023-03-01,09:30:00,7,11,12,10.5,200,C,\n"
	_, err = LoadTrades(context.Background(), writeTempFile(t, dir, "bad.csv", ambiguous))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("want ambiguous cancellation error on line 2, got %v", err)
	}
}

func TestLoadGridKeys(t *testing.T) {
	content := gridHeader + "A,2023-03-01,09:30:00\nA,2023-03-01,09:30:01\n"
	keys, err := LoadGridKeys(context.Background(), writeTempFile(t, t.TempDir(), "grid.csv", content))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(keys) != 2 || keys[1].Second != 9*3600+30*60+1 {
		t.Fatalf("unexpected keys %+v", keys)
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "orders.csv", ordersHeader+"A,2023-03-01,09:30:00,1,1,1,,1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadOrders(ctx, path); err == nil {
		t.Fatal("expected context error")
	}
}

func TestParseDateAndClock(t *testing.T) {
	dates := map[string]int{"2023-03-01": 20230301, "20230301": 20230301}
	for in, want := range dates {
		got, err := ParseDate(in)
		if err != nil || got != want {
			t.Fatalf("ParseDate(%q) = %d, %v", in, got, err)
		}
	}
	for _, bad := range []string{"", "2023-3-1", "2023-13-01", "abcdefgh"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("ParseDate(%q) should fail", bad)
		}
	}

	clocks := map[string]int{"09:30:00": 34200, "09:30:00.999": 34200, "093001": 34201, "93001": 34201}
	for in, want := range clocks {
		got, err := ParseClock(in)
		if err != nil || got != want {
			t.Fatalf("ParseClock(%q) = %d, %v", in, got, err)
		}
	}
	for _, bad := range []string{"", "9:30", "24:00:00", "09:60:00"} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("ParseClock(%q) should fail", bad)
		}
	}
}
