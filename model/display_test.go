package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func uintPtr(v uint) *uint { return &v }

func TestInstitutionStringRoot(t *testing.T) {
	inst := Institution{ID: 1, Name: "Tufts University", ShortName: "Tufts"}
	assert.Equal(t, "Tufts University", inst.String())
}

func TestInstitutionStringChain(t *testing.T) {
	c := &Institution{ID: 3, Name: "C"}
	b := &Institution{ID: 2, Name: "B", ParentID: uintPtr(3), Parent: c}
	a := Institution{ID: 1, Name: "A", ParentID: uintPtr(2), Parent: b}

	assert.Equal(t, "A, B, C", a.String())
	assert.Equal(t, "B, C", b.String())
	assert.False(t, a.IsRoot())
	assert.True(t, c.IsRoot())
}

func TestDepartmentAndProgramString(t *testing.T) {
	inst := Institution{ID: 1, Name: "Tufts University", ShortName: "Tufts"}

	d := Department{Name: "Biology", Abbreviation: "BIO", InstitutionID: 1, Institution: inst}
	p := Program{Name: "Neuroscience", Abbreviation: "NEURO", InstitutionID: 1, Institution: inst}

	assert.Equal(t, "Biology (Tufts)", d.String())
	assert.Equal(t, "Neuroscience (Tufts)", p.String())
}

func TestWorkgroupString(t *testing.T) {
	x := Institution{ID: 1, ShortName: "X"}
	y := Institution{ID: 2, ShortName: "Y"}
	z := Institution{ID: 3, ShortName: "Z"}
	dept := Department{InstitutionID: 1, Institution: x}

	tests := []struct {
		name     string
		programs []Program
		want     string
	}{
		{
			name: "no programs",
			want: "Lab, X",
		},
		{
			name: "programs sharing an institution",
			programs: []Program{
				{ID: 1, InstitutionID: 2, Institution: y},
				{ID: 2, InstitutionID: 2, Institution: y},
			},
			want: "Lab, X/Y",
		},
		{
			name: "department institution is not suppressed",
			programs: []Program{
				{ID: 1, InstitutionID: 1, Institution: x},
			},
			want: "Lab, X/X",
		},
		{
			name: "program order is kept",
			programs: []Program{
				{ID: 1, InstitutionID: 3, Institution: z},
				{ID: 2, InstitutionID: 2, Institution: y},
				{ID: 3, InstitutionID: 3, Institution: z},
			},
			want: "Lab, X/Z/Y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Workgroup{Name: "Lab", Department: dept, Programs: tt.programs}
			assert.Equal(t, tt.want, w.String())
		})
	}
}

func TestFundingDisplay(t *testing.T) {
	f := Funding{
		DeptID:      "AS12345",
		GrantCode:   "",
		ShortName:   "R01",
		Number:      NoAwardNumber,
		StartDate:   datatypes.Date(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:     datatypes.Date(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		FundingType: FundingType{Name: "Grant"},
		AwardedTo:   User{Username: "jdoe"},
	}

	assert.Equal(t, "AS12345-", f.DeptIDGrantCode())
	assert.Equal(t, "AS12345- (R01 Grant, jdoe)", f.String())

	f.GrantCode = "GR0001"
	assert.Equal(t, "AS12345-GR0001", f.DeptIDGrantCode())
}

func TestSimpleDisplays(t *testing.T) {
	assert.Equal(t, "Principal Investigator", LeadershipTitle{Title: "Principal Investigator"}.String())
	assert.Equal(t, "Contract", FundingType{Name: "Contract"}.String())
	assert.Equal(t, "jdoe", User{Username: "jdoe"}.String())
}
