package restore

// Step is one category in processing order.
type Step struct {
	Rule *CategoryRule
	Emit bool // asked for by the caller. false means only a dependent needs it.
}

// normaliseAll normalises prefixes and drops repeats, keeping the first.
func normaliseAll(prefixes []string) []string {
	seen := make(map[string]bool)
	var ret []string
	for _, p := range prefixes {
		n := Normalise(p)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		ret = append(ret, n)
	}
	return ret
}

// Plan checks a request against the registry and puts it in an order
// where every parent comes before its dependents. Parents which were
// not asked for are added with Emit false. If any prefix is unknown,
// nothing is planned.
func Plan(prefixes []string) ([]Step, error) {
	want := normaliseAll(prefixes)
	var bad []string
	need := make(map[string]bool) // name to emit
	for _, n := range want {
		if _, ok := Lookup(n); !ok {
			bad = append(bad, n)
			continue
		}
		need[n] = true
	}
	if len(bad) > 0 {
		return nil, &UnsupportedCategoryError{Categories: bad}
	}
	for _, n := range want {
		for r, _ := Lookup(n); r.DependsOn != ""; r, _ = Lookup(r.DependsOn) {
			if _, ok := need[r.DependsOn]; !ok {
				need[r.DependsOn] = false
			}
		}
	}
	return order(need), nil
}

// order is Kahn's algorithm over the dependency table. Among categories
// which are ready, registry order decides, so the result is stable.
func order(need map[string]bool) []Step {
	done := make(map[string]bool)
	var ret []Step
	for progress := true; progress && len(ret) < len(need); {
		progress = false
		for i := range Rules {
			r := &Rules[i]
			emit, ok := need[r.Name]
			if !ok || done[r.Name] {
				continue
			}
			if r.DependsOn != "" && !done[r.DependsOn] {
				continue
			}
			done[r.Name] = true
			ret = append(ret, Step{Rule: r, Emit: emit})
			progress = true
			break
		}
	}
	return ret
}
