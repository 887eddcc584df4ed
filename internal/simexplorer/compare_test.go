package simexplorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bomscope/pkg/core"
)

func TestComputeCompareKey(t *testing.T) {
	withDefault := simFile("f01")
	bare := core.SimFile{ID: "p1", Name: "pressure.csv"}

	tests := []struct {
		name string
		file core.SimFile
		cond string
		want string
	}{
		{"explicit condition", withDefault, "cruise", "f01::cruise"},
		{"file default condition", withDefault, "", "f01::takeoff"},
		{"explicit equals default", withDefault, "takeoff", "f01::takeoff"},
		{"no condition anywhere", bare, "", "p1::default"},
		{"explicit on bare file", bare, "cruise", "p1::cruise"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeCompareKey(tt.file, tt.cond))
		})
	}
}

// Both add paths must derive the same key for the same file and condition,
// otherwise the queue could hold the same item twice.
func TestCompareKey_FileAndInstancePathsAgree(t *testing.T) {
	for _, cond := range []string{"", "takeoff", "cruise"} {
		t.Run("condition="+cond, func(t *testing.T) {
			viaFile := Reduce(Initial(DefaultPageSize), AddCompare{File: simFile("f01"), ConditionID: cond})
			viaInstance := Reduce(Initial(DefaultPageSize), AddInstanceCompare{InstanceID: "st-1", Files: []core.SimFile{simFile("f01")}, ConditionID: cond})

			require.Len(t, viaFile.Compare, 1)
			require.Len(t, viaInstance.Compare, 1)
			assert.Equal(t, viaFile.Compare[0].Key, viaInstance.Compare[0].Key)
			assert.Equal(t, viaFile.Compare[0].ConditionID, viaInstance.Compare[0].ConditionID)

			crossed := Reduce(viaFile, AddInstanceCompare{InstanceID: "st-1", Files: []core.SimFile{simFile("f01")}, ConditionID: cond})
			assert.Len(t, crossed.Compare, 1, "instance add must see the file add as a duplicate")
		})
	}
}

func TestCompareKey_DefaultConditionMatchesExplicit(t *testing.T) {
	s := Reduce(Initial(DefaultPageSize), AddCompare{File: simFile("f01")})
	s = Reduce(s, AddCompare{File: simFile("f01"), ConditionID: "takeoff"})

	assert.Len(t, s.Compare, 1)
	assert.Equal(t, "takeoff", s.Compare[0].ConditionID)
	assert.Equal(t, "Takeoff", s.Compare[0].ConditionName)
}

func TestAppendCompare_DoesNotAlias(t *testing.T) {
	queue := make([]CompareItem, 1, 4)
	queue[0] = newCompareItem(simFile("f01"), "", "")

	a, ok := appendCompare(queue, newCompareItem(simFile("f02"), "", ""))
	require.True(t, ok)
	b, ok := appendCompare(queue, newCompareItem(simFile("f03"), "", ""))
	require.True(t, ok)

	assert.Equal(t, "f02::takeoff", a[1].Key)
	assert.Equal(t, "f03::takeoff", b[1].Key)
}
