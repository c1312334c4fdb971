package facets

import (
	"slices"
	"testing"

	"github.com/kailas-cloud/facetdex/internal/domain/entity"
	"github.com/kailas-cloud/facetdex/internal/domain/search/filter"
	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
)

// --- Fixtures ---

type fakeEntities struct {
	list []entity.Entity
}

func (f *fakeEntities) Len() int { return len(f.list) }
func (f *fakeEntities) At(i int) *entity.Entity { return &f.list[i] }
func (f *fakeEntities) Get(id string) (*entity.Entity, bool) {
	for i := range f.list {
		if f.list[i].ID() == id {
			return &f.list[i], true
		}
	}
	return nil, false
}

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	typ, err := taxonomy.NewCategory("type", "", []string{"person", "movie"})
	if err != nil {
		t.Fatal(err)
	}
	genre, err := taxonomy.NewCategory("genre", "", []string{"crime", "drama", "comedy", "Science-Fiction"})
	if err != nil {
		t.Fatal(err)
	}
	tax, err := taxonomy.New([]taxonomy.Category{typ, genre})
	if err != nil {
		t.Fatal(err)
	}
	return tax
}

func mustEntity(t *testing.T, id, typ string, tags ...string) entity.Entity {
	t.Helper()
	e, err := entity.New(id, typ, id, "", tags, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func testEntities(t *testing.T) *fakeEntities {
	return &fakeEntities{list: []entity.Entity{
		mustEntity(t, "heat", "movie", "crime", "drama"),
		mustEntity(t, "airplane", "movie", "comedy"),
		mustEntity(t, "pacino", "person", "drama"),
		mustEntity(t, "alien", "movie", "science-fiction"),
	}}
}

func mustSet(t *testing.T, fs ...filter.Filter) filter.Set {
	t.Helper()
	s, err := filter.NewSet(fs...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func keys(tags Tags) []string {
	out := make([]string, 0, len(tags))
	for _, v := range tags {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func assertTags(t *testing.T, a Available, category string, want ...string) {
	t.Helper()
	got := keys(a[category])
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("%s = %v, want %v", category, got, want)
	}
}

// --- Tests ---

func TestCompute_NoFilters(t *testing.T) {
	a := New(testTaxonomy(t)).Compute(testEntities(t), nil)

	assertTags(t, a, "type", "movie", "person")
	assertTags(t, a, "genre", "crime", "drama", "comedy", "Science-Fiction")
}

func TestCompute_EveryCategoryPresent(t *testing.T) {
	a := New(testTaxonomy(t)).Compute(&fakeEntities{}, nil)
	for _, id := range []string{"type", "genre"} {
		if _, ok := a[id]; !ok {
			t.Errorf("category %q missing", id)
		}
	}
	if a.Len() != 0 {
		t.Errorf("Len = %d, want 0", a.Len())
	}
}

func TestCompute_NoneFilterDoesNotNarrowOwnCategory(t *testing.T) {
	s := mustSet(t, filter.Filter{Category: "genre", Tag: "crime", Modifier: filter.None})
	a := New(testTaxonomy(t)).Compute(testEntities(t), s)

	assertTags(t, a, "genre", "crime", "drama", "comedy", "Science-Fiction")
	assertTags(t, a, "type", "movie")
}

func TestCompute_IncludeNarrowsOwnCategory(t *testing.T) {
	s := mustSet(t, filter.Filter{Category: "genre", Tag: "drama", Modifier: filter.Include})
	a := New(testTaxonomy(t)).Compute(testEntities(t), s)

	assertTags(t, a, "genre", "crime", "drama")
	assertTags(t, a, "type", "movie", "person")
}

func TestCompute_ExcludeNarrowsOtherCategories(t *testing.T) {
	s := mustSet(t, filter.Filter{Category: "genre", Tag: "drama", Modifier: filter.Exclude})
	a := New(testTaxonomy(t)).Compute(testEntities(t), s)

	assertTags(t, a, "type", "movie")
	assertTags(t, a, "genre", "crime", "drama", "comedy", "Science-Fiction")
}

func TestCompute_CrossCategory(t *testing.T) {
	s := mustSet(t,
		filter.Filter{Category: "type", Tag: "person", Modifier: filter.None},
		filter.Filter{Category: "genre", Tag: "comedy", Modifier: filter.None},
	)
	a := New(testTaxonomy(t)).Compute(testEntities(t), s)

	// genre availability comes from persons; type availability from comedies.
	assertTags(t, a, "genre", "drama", "comedy")
	assertTags(t, a, "type", "movie", "person")
}

func TestCompute_SelectedTagsAlwaysAvailable(t *testing.T) {
	s := mustSet(t,
		filter.Filter{Category: "genre", Tag: "science-fiction", Modifier: filter.Include},
		filter.Filter{Category: "genre", Tag: "comedy", Modifier: filter.Include},
		filter.Filter{Category: "planet", Tag: "tatooine", Modifier: filter.None},
	)
	a := New(testTaxonomy(t)).Compute(testEntities(t), s)

	// No entity has both; the selected tags are still offered, in canonical form.
	assertTags(t, a, "genre", "comedy", "Science-Fiction")
	assertTags(t, a, "type")
	if _, ok := a["planet"]; ok {
		t.Error("unknown category must not be added")
	}
}

func TestCompute_SelectedUnknownTagKeptAsTyped(t *testing.T) {
	s := mustSet(t, filter.Filter{Category: "genre", Tag: "Noir", Modifier: filter.None})
	a := New(testTaxonomy(t)).Compute(testEntities(t), s)

	if !a.Has("genre", "noir") {
		t.Fatal("selected tag must be available")
	}
	if a["genre"]["noir"] != "Noir" {
		t.Errorf("display = %q, want Noir", a["genre"]["noir"])
	}
}

func TestComputeWithin_RestrictsToIDs(t *testing.T) {
	a := New(testTaxonomy(t)).ComputeWithin(testEntities(t), nil, []string{"pacino", "missing", "pacino"})

	assertTags(t, a, "type", "person")
	assertTags(t, a, "genre", "drama")
}

func TestComputeWithin_NoMatches(t *testing.T) {
	s := mustSet(t, filter.Filter{Category: "genre", Tag: "crime", Modifier: filter.None})
	a := New(testTaxonomy(t)).ComputeWithin(testEntities(t), s, nil)

	assertTags(t, a, "type")
	assertTags(t, a, "genre", "crime")
}

func TestAvailable_Ordered(t *testing.T) {
	tax := testTaxonomy(t)
	s := mustSet(t, filter.Filter{Category: "genre", Tag: "Noir", Modifier: filter.None})
	a := New(tax).Compute(testEntities(t), s)
	a["genre"].add("Giallo")

	groups := a.Ordered(tax)
	if len(groups) != 2 || groups[0].Category != "type" || groups[1].Category != "genre" {
		t.Fatalf("groups = %+v", groups)
	}
	want := []string{"crime", "drama", "comedy", "Science-Fiction", "Giallo", "Noir"}
	if !slices.Equal(groups[1].Tags, want) {
		t.Errorf("genre = %v, want %v", groups[1].Tags, want)
	}
}
