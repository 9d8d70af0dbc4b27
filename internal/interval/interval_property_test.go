package interval

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var epoch = day(2000, 1, 1)

// genDay generates day offsets from epoch spanning roughly fifty years.
func genDay() gopter.Gen {
	return gen.IntRange(0, 18000)
}

func properties(t *testing.T) *gopter.Properties {
	t.Helper()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return gopter.NewProperties(parameters)
}

func TestEnumerateProperties(t *testing.T) {
	props := properties(t)

	props.Property("length is days+1 for ordered bounds and 0 for inverted", prop.ForAll(
		func(a, b int) bool {
			start := epoch.AddDate(0, 0, a)
			end := epoch.AddDate(0, 0, b)
			got := len(Enumerate(start, end))
			if a > b {
				return got == 0
			}
			return got == min(b-a+1, MaxSteps)
		},
		genDay(), genDay(),
	))

	props.Property("instants are strictly increasing", prop.ForAll(
		func(a, span int) bool {
			start := epoch.AddDate(0, 0, a)
			got := Enumerate(start, start.AddDate(0, 0, span))
			for i := 1; i < len(got); i++ {
				if got[i] <= got[i-1] {
					return false
				}
			}
			return true
		},
		genDay(), gen.IntRange(0, 400),
	))

	props.Property("never exceeds the cap", prop.ForAll(
		func(a, b int) bool {
			return len(Enumerate(epoch.AddDate(0, 0, -a), epoch.AddDate(0, 0, b))) <= MaxSteps
		},
		genDay(), genDay(),
	))

	props.TestingRun(t)
}

func TestResolveIndexProperties(t *testing.T) {
	props := properties(t)

	props.Property("the k-th instant resolves to k", prop.ForAll(
		func(a, span, k int, strict bool) bool {
			start := epoch.AddDate(0, 0, a)
			end := start.AddDate(0, 0, span)
			k = k % (span + 1)
			instants := Enumerate(start, end)
			candidate := time.UnixMilli(instants[k]).UTC()
			return ResolveIndex(start, end, strict, candidate) == k
		},
		genDay(), gen.IntRange(0, 400), gen.IntRange(0, 10000), gen.Bool(),
	))

	props.Property("between steps picks the earlier step or -1", prop.ForAll(
		func(a, span, k, hours int) bool {
			start := epoch.AddDate(0, 0, a)
			end := start.AddDate(0, 0, span+1)
			k = k % (span + 1)
			candidate := start.AddDate(0, 0, k).Add(time.Duration(hours) * time.Hour)
			return ResolveIndex(start, end, false, candidate) == k &&
				ResolveIndex(start, end, true, candidate) == -1
		},
		genDay(), gen.IntRange(0, 400), gen.IntRange(0, 10000), gen.IntRange(1, 23),
	))

	props.TestingRun(t)
}

func TestClampProperties(t *testing.T) {
	props := properties(t)

	props.Property("result lies within bounds and inside values are untouched", prop.ForAll(
		func(a, span, v int) bool {
			start := epoch.AddDate(0, 0, a)
			end := start.AddDate(0, 0, span)
			value := epoch.AddDate(0, 0, v)
			got := Clamp(value, start, end)

			switch {
			case value.Before(start):
				return got.Equal(start)
			case value.After(end):
				return got.Equal(end)
			default:
				return got.Equal(value)
			}
		},
		genDay(), gen.IntRange(0, 400), genDay(),
	))

	props.TestingRun(t)
}
