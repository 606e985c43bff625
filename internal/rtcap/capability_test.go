package rtcap

import "testing"

var allPoints = []RuntimeCapability{
	Base,
	BasicMeasurementFeedback,
	BasicQuantumFunctionality,
	BasicExecution,
	AdaptiveExecution,
	FullComputation,
	{Result: Controlled, Classical: Full},
	{Result: Transparent, Classical: Integral},
}

func TestCombineIdempotent(t *testing.T) {
	for _, c := range allPoints {
		if got := Combine(c, c); got != c {
			t.Errorf("Combine(%v, %v) = %v, want %v", c, c, got, c)
		}
	}
}

func TestCombineCommutative(t *testing.T) {
	for _, a := range allPoints {
		for _, b := range allPoints {
			if Combine(a, b) != Combine(b, a) {
				t.Errorf("Combine(%v, %v) != Combine(%v, %v)", a, b, b, a)
			}
		}
	}
}

func TestCombineAssociative(t *testing.T) {
	for _, a := range allPoints {
		for _, b := range allPoints {
			for _, c := range allPoints {
				lhs := Combine(Combine(a, b), c)
				rhs := Combine(a, Combine(b, c))
				if lhs != rhs {
					t.Errorf("associativity violated for (%v,%v,%v): %v != %v", a, b, c, lhs, rhs)
				}
			}
		}
	}
}

func TestBaseIsIdentity(t *testing.T) {
	for _, c := range allPoints {
		if got := Combine(Base, c); got != c {
			t.Errorf("Combine(Base, %v) = %v, want %v", c, got, c)
		}
	}
}

func TestCombineAllEmptyIsBase(t *testing.T) {
	if got := CombineAll(nil); got != Base {
		t.Errorf("CombineAll(nil) = %v, want Base", got)
	}
}

func TestExceeds(t *testing.T) {
	if Base.Exceeds(Base) {
		t.Error("Base must not exceed Base")
	}
	if !FullComputation.Exceeds(Base) {
		t.Error("FullComputation must exceed Base")
	}
	if BasicMeasurementFeedback.Exceeds(BasicMeasurementFeedback) {
		t.Error("a capability must not exceed itself")
	}
	// Incomparable points: neither exceeds the other under LessOrEqual in
	// both directions simultaneously being false would be wrong; exceeds is
	// defined as "not <=", so two incomparable points both "exceed" each
	// other under this definition, which is the intended reading of
	// base spec §4.D's shouldReport(target, capability) = capability > target.
	a := RuntimeCapability{Result: Transparent, Classical: Empty}
	b := RuntimeCapability{Result: Opaque, Classical: Full}
	if !a.Exceeds(b) || !b.Exceeds(a) {
		t.Error("incomparable points should each be reported as exceeding the other")
	}
}

func TestCanonicalNames(t *testing.T) {
	cases := map[RuntimeCapability]string{
		Base:                      "Base",
		BasicMeasurementFeedback:  "BasicMeasurementFeedback",
		BasicQuantumFunctionality: "BasicQuantumFunctionality",
		FullComputation:           "FullComputation",
	}
	for cap, want := range cases {
		if got := cap.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestParseNameRoundTrip(t *testing.T) {
	for cap, name := range canonicalNames {
		got, ok := ParseName(name)
		if !ok {
			t.Fatalf("ParseName(%q) failed, want ok", name)
		}
		if got != cap {
			t.Errorf("ParseName(%q) = %v, want %v", name, got, cap)
		}
	}
}

func TestParseNameUnknown(t *testing.T) {
	if _, ok := ParseName("NotACapability"); ok {
		t.Error("ParseName of an unknown name should fail")
	}
}
