package validation

import "testing"

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	Required("email", "a@b.c", v)
	if v["name"] != "required" {
		t.Errorf("name violation = %q, want required", v["name"])
	}
	if _, ok := v["email"]; ok {
		t.Errorf("email should not have a violation")
	}
}

func TestMinFloat(t *testing.T) {
	tests := []struct {
		name string
		val  float64
		want bool
	}{
		{"below minimum", 0.005, true},
		{"at minimum", 0.01, false},
		{"above minimum", 2, false},
		{"negative", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Violations{}
			MinFloat("quantity", tt.val, 0.01, v)
			if _, ok := v["quantity"]; ok != tt.want {
				t.Errorf("violation present = %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestNonNegativeFloat(t *testing.T) {
	v := Violations{}
	NonNegativeFloat("unit_price", 0, v)
	if !v.Empty() {
		t.Errorf("zero should be allowed, got %v", v)
	}
	NonNegativeFloat("unit_price", -0.5, v)
	if v["unit_price"] != "must_not_be_negative" {
		t.Errorf("unit_price violation = %q", v["unit_price"])
	}
}

func TestRangeFloat(t *testing.T) {
	v := Violations{}
	RangeFloat("tax_rate", 101, 0, 100, v)
	if v["tax_rate"] != "out_of_range" {
		t.Errorf("tax_rate violation = %q, want out_of_range", v["tax_rate"])
	}
	v = Violations{}
	RangeFloat("tax_rate", 0, 0, 100, v)
	RangeFloat("tax_rate2", 100, 0, 100, v)
	if !v.Empty() {
		t.Errorf("bounds should be inclusive, got %v", v)
	}
}
