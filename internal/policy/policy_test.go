package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/qcapcore/internal/rtcap"
)

func TestDefaultPolicyDecodesAtInit(t *testing.T) {
	if Default.BigInt != rtcap.FullComputation {
		t.Errorf("Default.BigInt = %v, want %v", Default.BigInt, rtcap.FullComputation)
	}
	if Default.UnboundedLoop != rtcap.AdaptiveExecution {
		t.Errorf("Default.UnboundedLoop = %v, want %v", Default.UnboundedLoop, rtcap.AdaptiveExecution)
	}
}

func TestClassicalControlFlowCapabilityFallsBackToBase(t *testing.T) {
	p := TargetPolicy{ClassicalControlFlow: map[string]rtcap.RuntimeCapability{"for": rtcap.Base}}
	if got := p.ClassicalControlFlowCapability("unknown-construct"); got != rtcap.Base {
		t.Errorf("ClassicalControlFlowCapability(unknown) = %v, want Base", got)
	}
	if got := p.ClassicalControlFlowCapability("for"); got != rtcap.Base {
		t.Errorf("ClassicalControlFlowCapability(for) = %v, want Base", got)
	}
}

func TestLoadOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	content := `
unbounded_loop: FullComputation
repeat_until: Base
classical_control_flow:
  for: Base
  while: Base
  conditional: Base
big_int: Base
double: Base
dynamic_array_size: Base
in_place_array_write: Base
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.UnboundedLoop != rtcap.FullComputation {
		t.Errorf("UnboundedLoop = %v, want FullComputation", got.UnboundedLoop)
	}
	if got.BigInt != rtcap.Base {
		t.Errorf("BigInt = %v, want Base", got.BigInt)
	}
}

func TestLoadRejectsUnknownCapabilityName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	content := `
unbounded_loop: NotACapability
repeat_until: Base
classical_control_flow: {}
big_int: Base
double: Base
dynamic_array_size: Base
in_place_array_write: Base
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load should reject an unknown capability name")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/policy.yaml"); err == nil {
		t.Fatal("Load should fail for a missing file")
	}
}
