package datatable

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

type word string

const alphabet = "abcAB C"

func (word) Generate(r *rand.Rand, size int) reflect.Value {
	b := make([]byte, r.Intn(6))
	for i := range b {
		b[i] = alphabet[r.Intn(len(alphabet))]
	}
	return reflect.ValueOf(word(b))
}

type rows []row

func (rows) Generate(r *rand.Rand, size int) reflect.Value {
	out := make(rows, r.Intn(12))
	for i := range out {
		name, _ := word("").Generate(r, size).Interface().(word)
		out[i] = row{Name: string(name), Status: []string{"active", "lead", ""}[r.Intn(3)]}
		if r.Intn(3) > 0 {
			out[i].Budget = budget(int64(r.Intn(100)))
		}
	}
	return reflect.ValueOf(out)
}

func TestProperty_SearchNarrowingNeverGrows(t *testing.T) {
	f := func(in rows, term word, extra word) bool {
		wide, err1 := table.Search(in, string(term))
		narrow, err2 := table.Search(in, string(term)+string(extra))
		return err1 == nil && err2 == nil && len(narrow) <= len(wide) && len(wide) <= len(in)
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestProperty_SearchIgnoresCase(t *testing.T) {
	f := func(in rows, term word) bool {
		upper, _ := table.Search(in, strings.ToUpper(string(term)))
		lower, _ := table.Search(in, strings.ToLower(string(term)))
		return reflect.DeepEqual(names(upper), names(lower))
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestProperty_FilterIdempotent(t *testing.T) {
	filter := Filter{"status", OpIn, "active,lead"}
	f := func(in rows) bool {
		once, _ := table.Filter(in, filter)
		twice, _ := table.Filter(once, filter)
		return reflect.DeepEqual(names(once), names(twice))
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestProperty_SortIdempotentNullsLast(t *testing.T) {
	f := func(in rows, desc bool) bool {
		dir := Asc
		if desc {
			dir = Desc
		}
		once, _ := table.Sort(in, "budget", dir)
		twice, _ := table.Sort(once, "budget", dir)
		seenNull := false
		for _, r := range once {
			if !r.Budget.Valid {
				seenNull = true
			} else if seenNull {
				return false
			}
		}
		return reflect.DeepEqual(once, twice)
	}
	require.NoError(t, quick.Check(f, nil))
}
