package toolpolicy

import (
	"slices"
	"testing"

	"github.com/beeper/toolgate/pkg/toolcatalog"
)

func TestResolveBuiltinProfilePolicy(t *testing.T) {
	cat := toolcatalog.Default()
	minimal := ResolveBuiltinProfilePolicy(cat, "minimal")
	if minimal == nil || !slices.Equal(minimal.Allow, []string{"session_status"}) {
		t.Fatalf("unexpected minimal policy: %+v", minimal)
	}
	if ResolveBuiltinProfilePolicy(cat, "full") != nil {
		t.Fatal("full profile must resolve to nil (unrestricted)")
	}
	if ResolveBuiltinProfilePolicy(cat, "nope") != nil {
		t.Fatal("unknown profile must resolve to nil")
	}
}

func TestResolveNamedProfileSimple(t *testing.T) {
	cat := toolcatalog.Default()
	profiles := map[string]NamedProfileConfig{
		"support": {Allow: []string{"message", "web_search"}, Deny: []string{"exec"}},
	}
	policy, trace := ResolveNamedProfile(cat, "support", profiles)
	if policy == nil {
		t.Fatal("expected a policy")
	}
	if !slices.Equal(policy.Allow, []string{"message", "web_search"}) {
		t.Fatalf("unexpected allow: %v", policy.Allow)
	}
	if !slices.Equal(policy.Deny, []string{"exec"}) {
		t.Fatalf("unexpected deny: %v", policy.Deny)
	}
	if !slices.Equal(trace.ResolvedFrom, []string{"support"}) {
		t.Fatalf("unexpected trace: %v", trace.ResolvedFrom)
	}
}

func TestResolveNamedProfileDenyWinsOnOverlap(t *testing.T) {
	cat := toolcatalog.Default()
	profiles := map[string]NamedProfileConfig{
		"child":  {Extends: "parent", Allow: []string{"read", "exec"}},
		"parent": {Deny: []string{"exec"}},
	}
	policy, _ := ResolveNamedProfile(cat, "child", profiles)
	if slices.Contains(policy.Allow, "exec") {
		t.Fatalf("deny must win over inherited allow: %v", policy.Allow)
	}
	if !slices.Contains(policy.Deny, "exec") {
		t.Fatalf("expected exec denied: %v", policy.Deny)
	}
}

func TestResolveNamedProfileExtendsBuiltinTerminates(t *testing.T) {
	cat := toolcatalog.Default()
	profiles := map[string]NamedProfileConfig{
		"locked": {Extends: "minimal", Allow: []string{"message"}},
	}
	policy, trace := ResolveNamedProfile(cat, "locked", profiles)
	if !slices.Equal(policy.Allow, []string{"message", "session_status"}) {
		t.Fatalf("unexpected allow: %v", policy.Allow)
	}
	if !slices.Equal(trace.ResolvedFrom, []string{"locked", "minimal"}) {
		t.Fatalf("unexpected trace: %v", trace.ResolvedFrom)
	}
}

func TestResolveNamedProfileCycleBreaksSilently(t *testing.T) {
	cat := toolcatalog.Default()
	profiles := map[string]NamedProfileConfig{
		"a": {Extends: "b", Allow: []string{"read"}},
		"b": {Extends: "a", Allow: []string{"write"}},
	}
	policy, trace := ResolveNamedProfile(cat, "a", profiles)
	if policy == nil {
		t.Fatal("cycle must still yield the accumulated policy")
	}
	if !slices.Equal(policy.Allow, []string{"read", "write"}) {
		t.Fatalf("unexpected allow: %v", policy.Allow)
	}
	if !slices.Equal(trace.ResolvedFrom, []string{"a", "b"}) {
		t.Fatalf("unexpected trace: %v", trace.ResolvedFrom)
	}
}

func TestResolveNamedProfileSelfReferenceTerminates(t *testing.T) {
	cat := toolcatalog.Default()
	profiles := map[string]NamedProfileConfig{
		"selfie": {Extends: "selfie", Allow: []string{"read"}},
	}
	policy, _ := ResolveNamedProfile(cat, "selfie", profiles)
	if policy == nil || !slices.Equal(policy.Allow, []string{"read"}) {
		t.Fatalf("unexpected policy: %+v", policy)
	}
}

func TestResolveNamedProfileChainDepthLimit(t *testing.T) {
	cat := toolcatalog.Default()
	profiles := map[string]NamedProfileConfig{
		"p1": {Extends: "p2", Allow: []string{"t1"}},
		"p2": {Extends: "p3", Allow: []string{"t2"}},
		"p3": {Extends: "p4", Allow: []string{"t3"}},
		"p4": {Extends: "p5", Allow: []string{"t4"}},
		"p5": {Extends: "p6", Allow: []string{"t5"}},
		"p6": {Allow: []string{"t6"}},
	}
	policy, trace := ResolveNamedProfile(cat, "p1", profiles)
	if len(trace.ResolvedFrom) != 5 {
		t.Fatalf("chain should stop at 5 hops, visited %v", trace.ResolvedFrom)
	}
	if slices.Contains(policy.Allow, "t6") {
		t.Fatalf("entries past the depth limit must not merge: %v", policy.Allow)
	}
}

func TestResolveNamedProfileEmptyResolvesToNone(t *testing.T) {
	cat := toolcatalog.Default()
	profiles := map[string]NamedProfileConfig{"empty": {}}
	if policy, _ := ResolveNamedProfile(cat, "empty", profiles); policy != nil {
		t.Fatalf("empty profile must resolve to none, got %+v", policy)
	}
	if policy, trace := ResolveNamedProfile(cat, "missing", profiles); policy != nil || trace != nil {
		t.Fatal("unknown profile must resolve to none")
	}
}

func TestResolveProfilePolicyNamedShadowsBuiltin(t *testing.T) {
	cat := toolcatalog.Default()
	profiles := map[string]NamedProfileConfig{
		"coding": {Allow: []string{"read"}},
	}
	policy, trace := ResolveProfilePolicy(cat, "coding", profiles)
	if !slices.Equal(policy.Allow, []string{"read"}) {
		t.Fatalf("named profile should shadow builtin on direct reference: %v", policy.Allow)
	}
	if trace == nil {
		t.Fatal("expected a named resolution trace")
	}
	builtin, _ := ResolveProfilePolicy(cat, "messaging", nil)
	if builtin == nil || !slices.Contains(builtin.Allow, "message") {
		t.Fatalf("builtin fallback failed: %+v", builtin)
	}
}

func TestHeadlineTools(t *testing.T) {
	headlines := HeadlineTools(NamedProfileConfig{
		Allow: []string{"message", "group:fs", "web_*", "Web_Search"},
	})
	if !slices.Equal(headlines, []string{"message", "web_search"}) {
		t.Fatalf("unexpected headlines: %v", headlines)
	}
}
