package report

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestToServersReportGroupsByHostPreservingOrder(t *testing.T) {
	fr := FilesReport{Files: []FileSpec{
		{NGASFileID: "a1", RelativePath: "a1.dat", Server: ServerRef{Host: "h1", Location: "AOC", Cluster: "DSOC"}},
		{NGASFileID: "b1", RelativePath: "b1.dat", Server: ServerRef{Host: "h2", Location: "AOC", Cluster: "DSOC"}},
		{NGASFileID: "a2", RelativePath: "a2.dat", Server: ServerRef{Host: "h1", Location: "AOC", Cluster: "DSOC"}},
	}}

	sr := ToServersReport(fr)
	assert.Equal(t, 2, len(sr))
	assert.Equal(t, 2, len(sr["h1"].Files))
	assert.Equal(t, "a1", sr["h1"].Files[0].NGASFileID)
	assert.Equal(t, "a2", sr["h1"].Files[1].NGASFileID)
	assert.Equal(t, 1, len(sr["h2"].Files))
}

func TestPlanTotalFiles(t *testing.T) {
	p := Plan{
		{Files: []FileSpec{{NGASFileID: "a"}, {NGASFileID: "b"}}},
		{Files: []FileSpec{{NGASFileID: "c"}}},
	}
	assert.Equal(t, 3, p.TotalFiles())
}

func TestPlanTotalFilesEmpty(t *testing.T) {
	var p Plan
	assert.Equal(t, 0, p.TotalFiles())
}
