package entity

import (
	"reflect"
	"testing"
	"time"
)

func TestDoctorFullName(t *testing.T) {
	d := &Doctor{FirstName: "Riya", LastName: "Mehta"}
	if got := d.FullName(); got != "Riya Mehta" {
		t.Fatalf("expected %q, got %q", "Riya Mehta", got)
	}

	d = &Doctor{FirstName: "Riya"}
	if got := d.FullName(); got != "Riya" {
		t.Fatalf("expected %q, got %q", "Riya", got)
	}
}

func TestEffectiveDailyLimit(t *testing.T) {
	cases := []struct {
		limit int
		want  int
	}{
		{limit: 15, want: 15},
		{limit: 0, want: DefaultDailyLimit},
		{limit: -3, want: DefaultDailyLimit},
	}

	for _, c := range cases {
		d := &Doctor{DailyLimit: c.limit}
		if got := d.EffectiveDailyLimit(); got != c.want {
			t.Fatalf("limit %d: expected %d, got %d", c.limit, c.want, got)
		}
	}
}

func TestOPDDayNames(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Mon,Wed,Fri", []string{"Mon", "Wed", "Fri"}},
		{" Mon , Wed ", []string{"Mon", "Wed"}},
		{"Mon,,Fri,", []string{"Mon", "Fri"}},
		{"", nil},
		{"   ", nil},
	}

	for _, c := range cases {
		d := &Doctor{OPDDays: c.in}
		if got := d.OPDDayNames(); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("OPDDayNames(%q): expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestAcceptsWeekday(t *testing.T) {
	cases := []struct {
		name    string
		opdDays string
		day     time.Weekday
		want    bool
	}{
		{name: "listed day", opdDays: "Mon,Wed,Fri", day: time.Wednesday, want: true},
		{name: "unlisted day", opdDays: "Mon,Wed,Fri", day: time.Tuesday, want: false},
		{name: "case insensitive", opdDays: "mon,WED", day: time.Monday, want: true},
		{name: "empty list accepts every day", opdDays: "", day: time.Sunday, want: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := &Doctor{OPDDays: c.opdDays}
			if got := d.AcceptsWeekday(c.day); got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestWeekdayShort(t *testing.T) {
	if got := WeekdayShort(time.Monday); got != "Mon" {
		t.Fatalf("expected Mon, got %q", got)
	}
	if got := WeekdayShort(time.Sunday); got != "Sun" {
		t.Fatalf("expected Sun, got %q", got)
	}
}
