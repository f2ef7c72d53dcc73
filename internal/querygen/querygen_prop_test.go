package querygen

import (
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var queryShape = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

func genFileName() gopter.Gen {
	return gopter.CombineGens(
		gen.Identifier(),
		gen.IntRange(0, 30),
		gen.IntRange(0, 20),
		gen.OneConstOf("fabric", "forge", "neoforge", "quilt", ""),
		gen.OneConstOf(".jar", ".zip", ".mrpack"),
	).Map(func(parts []interface{}) string {
		name := parts[0].(string)
		major := parts[1].(int)
		minor := parts[2].(int)
		loader := parts[3].(string)
		ext := parts[4].(string)

		segments := []string{name}
		if loader != "" {
			segments = append(segments, loader)
		}
		segments = append(segments, "1."+itoa(major)+"."+itoa(minor))
		return strings.Join(segments, "-") + ext
	})
}

func itoa(v int) string {
	digits := "0123456789"
	if v < 10 {
		return string(digits[v])
	}
	return string(digits[v/10]) + string(digits[v%10])
}

func TestGenerateQueriesAreWellFormed(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("every query is lowercase hyphen-delimited with no edge hyphens", prop.ForAll(
		func(fileName string) bool {
			for _, query := range Generate(fileName) {
				if len(query) < 3 {
					return false
				}
				if !queryShape.MatchString(query) {
					return false
				}
			}
			return true
		},
		genFileName(),
	))

	properties.Property("arbitrary input never yields malformed queries", prop.ForAll(
		func(raw string) bool {
			for _, query := range Generate(raw) {
				if len(query) < 3 || !queryShape.MatchString(query) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestGenerateIsIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("repeat calls return the identical ordered list", prop.ForAll(
		func(fileName string) bool {
			return reflect.DeepEqual(Generate(fileName), Generate(fileName))
		},
		genFileName(),
	))

	properties.Property("normalize is a fixed point of itself", prop.ForAll(
		func(raw string) bool {
			once := Normalize(raw)
			return Normalize(once) == once
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestGenerateHasNoDuplicates(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("candidates are unique keeping first occurrence", prop.ForAll(
		func(fileName string) bool {
			queries := Generate(fileName)
			seen := make(map[string]struct{}, len(queries))
			for _, query := range queries {
				if _, dup := seen[query]; dup {
					return false
				}
				seen[query] = struct{}{}
			}
			return true
		},
		genFileName(),
	))

	properties.TestingRun(t)
}
