package core

import "testing"

func TestParsePayment(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"5", 5, false},
		{"12.50", 12.5, false},
		{" 7 ", 7, false},
		{"$1,234.56", 1234.56, false},
		{"€99", 99, false},
		{"£0.5", 0.5, false},
		{"(250)", -250, false},
		{"-3", -3, false},
		{"1e3", 1000, false},
		{".25", 0.25, false},
		{"", 0, true},
		{"abc", 0, true},
		{"12abc", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"1e400", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePayment(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePayment(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParsePayment(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatPayment(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "5"},
		{12.5, "12.5"},
		{0, "0"},
		{1234.56, "1234.56"},
		{1e21, "1000000000000000000000"},
	}
	for _, tt := range tests {
		if got := FormatPayment(tt.in); got != tt.want {
			t.Errorf("FormatPayment(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPaymentSearchText(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "5.0"},
		{0, "0.0"},
		{12.5, "12.5"},
		{-3, "-3.0"},
		{1e16, "1e+16"},
		{0.00001, "1e-05"},
		{0.0001, "0.0001"},
	}
	for _, tt := range tests {
		if got := PaymentSearchText(tt.in); got != tt.want {
			t.Errorf("PaymentSearchText(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  value  ", "value"},
		{`="00123"`, "00123"},
		{`"quoted"`, "quoted"},
		{"", ""},
		{`=SUM(A1)`, "=SUM(A1)"},
	}
	for _, tt := range tests {
		if got := CleanCell(tt.in); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMakeHeaderIndex(t *testing.T) {
	idx := MakeHeaderIndex([]string{"name", " payment ", "name", "Status"})

	if idx["name"] != 0 {
		t.Errorf("name = %d, want 0 (first occurrence)", idx["name"])
	}
	if idx["payment"] != 1 {
		t.Errorf("payment = %d, want 1", idx["payment"])
	}
	if _, ok := idx["status"]; ok {
		t.Error("header matching must be case-sensitive")
	}
}
