package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// MatchFile matches frames whose real path matches re.
func MatchFile(re *regexp.Regexp) Predicate {
	return func(file, _ string) (bool, error) { return re.MatchString(file), nil }
}

// MatchLabel matches frames whose label matches re.
func MatchLabel(re *regexp.Regexp) Predicate {
	return func(_, label string) (bool, error) { return re.MatchString(label), nil }
}

// MatchEither matches frames whose real path or label matches re.
func MatchEither(re *regexp.Regexp) Predicate {
	return func(file, label string) (bool, error) {
		return re.MatchString(file) || re.MatchString(label), nil
	}
}

// MatchGlob matches the real path, or its base name, against a shell pattern.
// A malformed pattern surfaces as a predicate error.
func MatchGlob(pattern string) Predicate {
	return func(file, _ string) (bool, error) {
		ok, err := filepath.Match(pattern, file)
		if err != nil {
			return false, fmt.Errorf("bad glob %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
		return filepath.Match(pattern, filepath.Base(file))
	}
}

// Any matches when at least one of ps does. Errors stop the evaluation.
func Any(ps ...Predicate) Predicate {
	return func(file, label string) (bool, error) {
		for _, p := range ps {
			ok, err := p(file, label)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	}
}
