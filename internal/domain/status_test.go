package domain

import "testing"

func TestParseOrderStatus(t *testing.T) {
	testCases := []struct {
		label string
		want  OrderStatus
		ok    bool
	}{
		{label: "pending", want: StatusPending, ok: true},
		{label: "COMPLETED", want: StatusCompleted, ok: true},
		{label: "Canceled", want: StatusCanceled, ok: true},
		{label: " completed ", want: StatusCompleted, ok: true},
		{label: "shipped", ok: false},
		{label: "", ok: false},
	}

	for _, tc := range testCases {
		got, ok := ParseOrderStatus(tc.label)
		if ok != tc.ok {
			t.Errorf("ParseOrderStatus(%q) ok = %v, want %v", tc.label, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ParseOrderStatus(%q) = %s, want %s", tc.label, got, tc.want)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	if StatusPending.Terminal() {
		t.Errorf("pending must not be terminal")
	}
	if !StatusCompleted.Terminal() {
		t.Errorf("completed must be terminal")
	}
	if !StatusCanceled.Terminal() {
		t.Errorf("canceled must be terminal")
	}
}
