package fiscal

import (
	"testing"
	"time"
)

func TestYearCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		date time.Time
		want string
	}{
		{"before april", time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC), "2324"},
		{"after april", time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC), "2425"},
		{"april first", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), "2425"},
		{"march thirty-first", time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC), "2324"},
		{"december", time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), "2324"},
		{"century wrap", time.Date(2099, time.June, 1, 0, 0, 0, 0, time.UTC), "9900"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := YearCode(tc.date); got != tc.want {
				t.Fatalf("YearCode(%s) = %q, want %q", tc.date.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestYearEndDateIsMarchThirty(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		date     time.Time
		wantYear int
	}{
		{"mid fy", time.Date(2023, time.September, 10, 0, 0, 0, 0, time.UTC), 2024},
		{"start of fy", time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC), 2024},
		{"end of fy", time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), 2024},
		{"january", time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), 2024},
		{"next fy", time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC), 2025},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := YearEndDate(tc.date)
			if got.Year() != tc.wantYear || got.Month() != time.March || got.Day() != 30 {
				t.Fatalf("YearEndDate(%s) = %s, want %d-03-30",
					tc.date.Format("2006-01-02"), got.Format("2006-01-02"), tc.wantYear)
			}
		})
	}
}

func TestYearEndDateCarriesTimeOfDay(t *testing.T) {
	t.Parallel()

	in := time.Date(2023, time.July, 4, 14, 30, 45, 123, time.UTC)
	got := YearEndDate(in)
	if got.Hour() != 14 || got.Minute() != 30 || got.Second() != 45 || got.Nanosecond() != 123 {
		t.Fatalf("YearEndDate time of day = %s, want 14:30:45.000000123", got.Format("15:04:05.000000000"))
	}
	if got.Location() != time.UTC {
		t.Fatalf("YearEndDate location = %v, want UTC", got.Location())
	}
}
