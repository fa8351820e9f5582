package stonks

import "testing"

func TestNewMoneyFromFloat(t *testing.T) {
	testCases := []struct {
		name       string
		amount     float64
		currency   string
		wantString string
		wantZero   bool
	}{
		{"Valid USD", 192.53, "USD", "$192.53", false},
		{"Valid EUR", 1.5, "EUR", "€1,50", false},
		{"Yen Has No Fraction", 151, "JPY", "¥151", false},
		{"Zero Amount", 0, "USD", "$0.00", true},
		{"Unknown Currency", 10, "NOPE", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMoneyFromFloat(tc.amount, tc.currency)
			if got := m.String(); got != tc.wantString {
				t.Errorf("String() = %q, want %q", got, tc.wantString)
			}
			if got := m.IsZero(); got != tc.wantZero {
				t.Errorf("IsZero() = %v, want %v", got, tc.wantZero)
			}
		})
	}
}

func TestMoneyCurrency(t *testing.T) {
	if got := NewMoneyFromFloat(1, "USD").Currency(); got != "USD" {
		t.Errorf("Currency() = %q, want USD", got)
	}
	if got := (Money{}).Currency(); got != "" {
		t.Errorf("zero Money Currency() = %q, want empty", got)
	}
}
