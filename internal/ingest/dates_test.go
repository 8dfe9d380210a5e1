package ingest

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestParseDatesCascade(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"20240524", date(2024, 5, 24)},
		{" 20240524 ", date(2024, 5, 24)},
		{"20240524.0", date(2024, 5, 24)},
		{"2024.05.01", date(2024, 5, 1)},
		{"2024.5.7", date(2024, 5, 7)},
		{"2024/05/24", date(2024, 5, 24)},
		{"2024-05-24", date(2024, 5, 24)},
		{"2024-05-24 13:45:00", date(2024, 5, 24)},
		{"May 24, 2024", date(2024, 5, 24)},
		{"45432", date(2024, 5, 20)},
		{"45432.0", date(2024, 5, 20)},
		{"45413.75", date(2024, 5, 1)},
		{"61", date(1900, 3, 1)},
	}
	in := make([]string, len(cases))
	for i, c := range cases {
		in[i] = c.in
	}
	got := ParseDates(in)
	if len(got) != len(in) {
		t.Fatalf("expected %d results, got %d", len(in), len(got))
	}
	for i, c := range cases {
		if !got[i].Resolved {
			t.Fatalf("%q: expected resolved", c.in)
		}
		if !got[i].Day.Equal(c.want) {
			t.Fatalf("%q: expected %s, got %s", c.in, c.want.Format("2006-01-02"), got[i].Day.Format("2006-01-02"))
		}
	}
}

func TestParseDateCompactBeatsSerial(t *testing.T) {
	d, ok := ParseDate("20240524")
	if !ok || !d.Equal(date(2024, 5, 24)) {
		t.Fatalf("expected 2024-05-24 from the 8-digit stage, got %v ok=%v", d, ok)
	}
	serial := serialEpoch.AddDate(0, 0, 20240524)
	if d.Equal(serial) {
		t.Fatal("8-digit value fell through to the serial stage")
	}
}

func TestParseDateSerialEpoch(t *testing.T) {
	d, ok := ParseDate("45432")
	if !ok {
		t.Fatal("expected serial to resolve")
	}
	want := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 45432)
	if !d.Equal(want) {
		t.Fatalf("expected %v, got %v", want, d)
	}
}

func TestParseDatesUnresolved(t *testing.T) {
	in := []string{"", "   ", "not a date", "20240230", "99999999", "05/24", "2/2/", "12:", "1:2:3:4:5"}
	for i, r := range ParseDates(in) {
		if r.Resolved {
			t.Fatalf("%q: expected unresolved, got %v", in[i], r.Day)
		}
	}
}

func TestParseDatesKeepsOrderAndLength(t *testing.T) {
	got := ParseDates([]string{"bad", "2024.05.02", "bad", "45413"})
	if got[0].Resolved || got[2].Resolved {
		t.Fatal("expected bad values unresolved")
	}
	if !got[1].Day.Equal(date(2024, 5, 2)) || !got[3].Day.Equal(date(2024, 5, 1)) {
		t.Fatalf("unexpected resolution: %+v", got)
	}
}
