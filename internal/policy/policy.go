// Package policy carries the one piece of externally configurable state
// the base spec alludes to (§4.D.2: "classical structures per target
// policy"): the minimum capability each classical construct demands. A
// default is embedded and decoded with yaml.v3, the same decoder family
// the lineage's go.mod already requires (SPEC_FULL.md §10.3).
package policy

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/funvibe/qcapcore/internal/rtcap"
	"gopkg.in/yaml.v3"
)

//go:embed default_policy.yaml
var defaultPolicyYAML []byte

// rawPolicy mirrors the YAML shape; capability fields are canonical names
// decoded via rtcap.ParseName.
type rawPolicy struct {
	UnboundedLoop        string            `yaml:"unbounded_loop"`
	RepeatUntil          string            `yaml:"repeat_until"`
	ClassicalControlFlow map[string]string `yaml:"classical_control_flow"`
	BigInt               string            `yaml:"big_int"`
	Double               string            `yaml:"double"`
	DynamicArraySize     string            `yaml:"dynamic_array_size"`
	InPlaceArrayWrite    string            `yaml:"in_place_array_write"`
}

// TargetPolicy is the resolved, ready-to-consult form of a raw policy
// file, read-only input to the StatementAnalyzer/TypeAnalyzer/ArrayAnalyzer
// (base spec §4.D.2-4.D.4).
type TargetPolicy struct {
	UnboundedLoop        rtcap.RuntimeCapability
	RepeatUntil          rtcap.RuntimeCapability
	ClassicalControlFlow map[string]rtcap.RuntimeCapability
	BigInt               rtcap.RuntimeCapability
	Double                rtcap.RuntimeCapability
	DynamicArraySize     rtcap.RuntimeCapability
	InPlaceArrayWrite    rtcap.RuntimeCapability
}

// ClassicalControlFlowCapability returns the capability construct demands,
// falling back to Base if the construct is not named in the policy.
func (p TargetPolicy) ClassicalControlFlowCapability(construct string) rtcap.RuntimeCapability {
	if cap, ok := p.ClassicalControlFlow[construct]; ok {
		return cap
	}
	return rtcap.Base
}

// Default is the embedded default policy, decoded once at package init.
var Default TargetPolicy

func init() {
	p, err := decode(defaultPolicyYAML)
	if err != nil {
		panic(fmt.Sprintf("policy: embedded default_policy.yaml is invalid: %v", err))
	}
	Default = p
}

// Load reads and resolves a target policy from path, overriding the
// embedded default (SPEC_FULL.md §10.3: "a host may layer an override
// policy the same way").
func Load(path string) (TargetPolicy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return TargetPolicy{}, fmt.Errorf("policy: reading %s: %w", path, err)
	}
	return decode(raw)
}

func decode(raw []byte) (TargetPolicy, error) {
	var rp rawPolicy
	if err := yaml.Unmarshal(raw, &rp); err != nil {
		return TargetPolicy{}, fmt.Errorf("policy: decoding: %w", err)
	}

	resolve := func(field, name string) (rtcap.RuntimeCapability, error) {
		cap, ok := rtcap.ParseName(name)
		if !ok {
			return rtcap.RuntimeCapability{}, fmt.Errorf("policy: %s: unknown capability name %q", field, name)
		}
		return cap, nil
	}

	var err error
	tp := TargetPolicy{ClassicalControlFlow: make(map[string]rtcap.RuntimeCapability, len(rp.ClassicalControlFlow))}
	if tp.UnboundedLoop, err = resolve("unbounded_loop", rp.UnboundedLoop); err != nil {
		return TargetPolicy{}, err
	}
	if tp.RepeatUntil, err = resolve("repeat_until", rp.RepeatUntil); err != nil {
		return TargetPolicy{}, err
	}
	if tp.BigInt, err = resolve("big_int", rp.BigInt); err != nil {
		return TargetPolicy{}, err
	}
	if tp.Double, err = resolve("double", rp.Double); err != nil {
		return TargetPolicy{}, err
	}
	if tp.DynamicArraySize, err = resolve("dynamic_array_size", rp.DynamicArraySize); err != nil {
		return TargetPolicy{}, err
	}
	if tp.InPlaceArrayWrite, err = resolve("in_place_array_write", rp.InPlaceArrayWrite); err != nil {
		return TargetPolicy{}, err
	}
	for construct, name := range rp.ClassicalControlFlow {
		cap, err := resolve("classical_control_flow."+construct, name)
		if err != nil {
			return TargetPolicy{}, err
		}
		tp.ClassicalControlFlow[construct] = cap
	}
	return tp, nil
}
