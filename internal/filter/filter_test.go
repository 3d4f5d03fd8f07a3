package filter

import (
	"reflect"
	"testing"

	"github.com/five82/stayfinder/internal/api"
)

func sample() []api.Listing {
	return []api.Listing{
		{ID: "1", Name: "Sunrise Boys Hostel", City: "Kota", Location: "Talwandi", Category: "Boys", Price: 4000, Amenities: []string{"WiFi", "AC"}},
		{ID: "2", Name: "Lotus PG", City: "Jaipur", Location: "Malviya Nagar", Category: "Girls", Price: 6000, Amenities: []string{"WiFi"}},
		{ID: "3", Name: "Metro Residency", City: "Kota", Location: "Indraprastha", Category: "Other", Price: 8000},
	}
}

func ids(items []api.Listing) []string {
	out := make([]string, 0, len(items))
	for _, l := range items {
		out = append(out, l.ID)
	}
	return out
}

func TestApply_PriceCeiling(t *testing.T) {
	got := Apply(sample(), Criteria{MaxPrice: PriceCeiling(5000)})
	if want := []string{"1"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("Apply(max 5000) = %v, want %v", ids(got), want)
	}
}

func TestApply_ZeroCeilingIsHonored(t *testing.T) {
	items := append(sample(), api.Listing{ID: "free", Price: 0})
	got := Apply(items, Criteria{MaxPrice: PriceCeiling(0)})
	if want := []string{"free"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("Apply(max 0) = %v, want %v", ids(got), want)
	}
}

func TestApply_Criteria(t *testing.T) {
	cases := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"empty", Criteria{}, []string{"1", "2", "3"}},
		{"category all", Criteria{Category: "all"}, []string{"1", "2", "3"}},
		{"category case-insensitive", Criteria{Category: "girls"}, []string{"2"}},
		{"query matches city", Criteria{Query: "  KOTA "}, []string{"1", "3"}},
		{"query matches location", Criteria{Query: "malviya"}, []string{"2"}},
		{"suggestion text", Criteria{Query: "Lotus PG, Jaipur"}, []string{"2"}},
		{"suggestion text mismatched city", Criteria{Query: "Lotus PG, Kota"}, []string{}},
		{"city exact", Criteria{City: "Kota"}, []string{"1", "3"}},
		{"city is case-sensitive", Criteria{City: "kota"}, []string{}},
		{"amenities all required", Criteria{Amenities: []string{"WiFi", "AC"}}, []string{"1"}},
		{"amenities case-sensitive", Criteria{Amenities: []string{"wifi"}}, []string{}},
		{"combined", Criteria{Query: "kota", MaxPrice: PriceCeiling(9000), Amenities: []string{"WiFi"}}, []string{"1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Apply(sample(), tc.c))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Apply = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestApply_EmptyInput(t *testing.T) {
	got := Apply(nil, Criteria{Query: "x"})
	if got == nil || len(got) != 0 {
		t.Fatalf("Apply(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestApply_IdempotentAndOrderPreserving(t *testing.T) {
	c := Criteria{Query: "o", MaxPrice: PriceCeiling(7000)}
	once := Apply(sample(), c)
	twice := Apply(once, c)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Fatalf("Apply twice = %v, want %v", ids(twice), ids(once))
	}
	// Output must be a subsequence of input.
	input := ids(sample())
	pos := 0
	for _, id := range ids(once) {
		for pos < len(input) && input[pos] != id {
			pos++
		}
		if pos == len(input) {
			t.Fatalf("Apply output %v is not a subsequence of %v", ids(once), input)
		}
		pos++
	}
}

func TestApply_AddingCriteriaNeverGrowsResult(t *testing.T) {
	base := Apply(sample(), Criteria{Query: "kota"})
	narrower := Apply(sample(), Criteria{Query: "kota", Category: "Boys"})
	if len(narrower) > len(base) {
		t.Fatalf("narrower result %v larger than base %v", ids(narrower), ids(base))
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	items := sample()
	before := ids(items)
	_ = Apply(items, Criteria{Category: "Girls"})
	if !reflect.DeepEqual(ids(items), before) {
		t.Fatalf("input mutated: %v, want %v", ids(items), before)
	}
}

func TestCriteriaCloneIsDeep(t *testing.T) {
	orig := Criteria{MaxPrice: PriceCeiling(100), Amenities: []string{"AC"}}
	cp := orig.Clone()
	*cp.MaxPrice = 5
	cp.Amenities[0] = "TV"
	if *orig.MaxPrice != 100 || orig.Amenities[0] != "AC" {
		t.Fatalf("Clone shares memory with original: %+v", orig)
	}
}

func TestCriteriaIsZero(t *testing.T) {
	if !(Criteria{Category: "all"}).IsZero() {
		t.Fatalf("Criteria{all}.IsZero() = false")
	}
	if (Criteria{MaxPrice: PriceCeiling(0)}).IsZero() {
		t.Fatalf("Criteria{max 0}.IsZero() = true")
	}
}

func TestCities(t *testing.T) {
	got := Cities(sample())
	if want := []string{"Kota", "Jaipur"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Cities = %v, want %v", got, want)
	}
}
