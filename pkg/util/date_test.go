package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}
func TestAlignFromToHour(t *testing.T) {
    from := time.Date(2026, 1, 15, 10, 42, 17, 0, time.UTC)
    to := time.Date(2026, 1, 15, 12, 3, 0, 0, time.UTC)
    gotFrom, gotTo := AlignFromTo(from, to, "1h")
    if gotFrom.Minute() != 0 || gotFrom.Hour() != 10 {
        t.Fatalf("from not aligned to hour: %v", gotFrom)
    }
    if gotTo.Minute() != 0 || gotTo.Hour() != 12 {
        t.Fatalf("to not aligned to hour: %v", gotTo)
    }
}
