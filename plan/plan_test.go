package plan

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/nrao/yoink/report"
)

func filesNamed(n int, prefix string) []report.FileSpec {
	out := make([]report.FileSpec, n)
	for i := range out {
		out[i] = report.FileSpec{NGASFileID: prefix + string(rune('a'+i))}
	}
	return out
}

func TestBuildRoundRobinsAcrossBucketsNoDuplication(t *testing.T) {
	sr := report.ServersReport{
		"hostA": {RetrieveMethod: report.Stream, Files: filesNamed(7, "a")},
	}
	p := Build(sr, 3)

	var allIDs []string
	bucketsForHost := 0
	for _, b := range p {
		if b.ServerHost != "hostA" {
			continue
		}
		bucketsForHost++
		assert.Assert(t, len(b.Files) > 0)
		for _, f := range b.Files {
			allIDs = append(allIDs, f.NGASFileID)
		}
	}
	assert.Equal(t, 3, bucketsForHost)

	sort.Strings(allIDs)
	want := []string{"aa", "ab", "ac", "ad", "ae", "af", "ag"}
	if diff := cmp.Diff(want, allIDs); diff != "" {
		t.Fatalf("bucketized file IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDropsEmptyBuckets(t *testing.T) {
	sr := report.ServersReport{
		"hostA": {RetrieveMethod: report.Stream, Files: filesNamed(2, "a")},
	}
	p := Build(sr, 5)
	assert.Equal(t, 2, len(p))
	for _, b := range p {
		assert.Equal(t, 1, len(b.Files))
	}
}

func TestBuildPreservesOrderWithinBucket(t *testing.T) {
	sr := report.ServersReport{
		"hostA": {RetrieveMethod: report.Stream, Files: filesNamed(6, "a")},
	}
	p := Build(sr, 2)
	for _, b := range p {
		for i := 1; i < len(b.Files); i++ {
			assert.Assert(t, b.Files[i-1].NGASFileID < b.Files[i].NGASFileID)
		}
	}
}

func TestBuildIndependentBucketSetsPerServer(t *testing.T) {
	sr := report.ServersReport{
		"hostA": {RetrieveMethod: report.Stream, Files: filesNamed(3, "a")},
		"hostB": {RetrieveMethod: report.Copy, Files: filesNamed(4, "b")},
	}
	p := Build(sr, 2)
	assert.Equal(t, 7, p.TotalFiles())

	hosts := map[string]bool{}
	for _, b := range p {
		hosts[b.ServerHost] = true
	}
	assert.Equal(t, 2, len(hosts))
}
