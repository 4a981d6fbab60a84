package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkgroupDisplayFromStore(t *testing.T) {
	f := newFixture(t)
	lead := f.user("lead")
	pi := f.title("Principal Investigator")
	x := f.institution("X University", "X", nil)
	y := f.institution("Y University", "Y", nil)
	z := f.institution("Z University", "Z", nil)
	dept := f.department(x, lead, "Physics", "PHYS")

	py1 := f.program(y, lead, "Y One", "Y1")
	py2 := f.program(y, lead, "Y Two", "Y2")
	px := f.program(x, lead, "X One", "X1")
	pz := f.program(z, lead, "Z One", "Z1")

	tests := []struct {
		name     string
		programs []uint
		want     string
	}{
		{"no programs", nil, "Lab, X"},
		{"programs sharing an institution", []uint{py1.ID, py2.ID}, "Lab, X/Y"},
		{"program at the department's institution", []uint{px.ID}, "Lab, X/X"},
		{"several institutions", []uint{py1.ID, pz.ID}, "Lab, X/Y/Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wg, err := f.workgroups.Create(f.ctx, WorkgroupInput{
				DepartmentID: dept.ID, LeadID: lead.ID, LeadTitleID: pi.ID,
				ProgramIDs: tt.programs, Name: "Lab", Location: "Room 1",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, wg.String())

			got, err := f.workgroups.Get(f.ctx, wg.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestWorkgroupProgramsDeduplicated(t *testing.T) {
	f := newFixture(t)
	lead := f.user("lead")
	pi := f.title("Principal Investigator")
	inst := f.institution("X University", "X", nil)
	dept := f.department(inst, lead, "Physics", "PHYS")
	p := f.program(inst, lead, "Optics", "OPT")

	wg, err := f.workgroups.Create(f.ctx, WorkgroupInput{
		DepartmentID: dept.ID, LeadID: lead.ID, LeadTitleID: pi.ID,
		ProgramIDs: []uint{p.ID, p.ID}, Name: "Lab", Location: "Room 1",
	})
	require.NoError(t, err)
	assert.Len(t, wg.Programs, 1)

	_, err = f.workgroups.Create(f.ctx, WorkgroupInput{
		DepartmentID: dept.ID, LeadID: lead.ID, LeadTitleID: pi.ID,
		ProgramIDs: []uint{999}, Name: "Lab", Location: "Room 1",
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.HasField("program_ids"))
}

func TestWorkgroupUpdateReplacesPrograms(t *testing.T) {
	f := newFixture(t)
	lead := f.user("lead")
	pi := f.title("Principal Investigator")
	inst := f.institution("X University", "X", nil)
	dept := f.department(inst, lead, "Physics", "PHYS")
	p := f.program(inst, lead, "Optics", "OPT")

	wg, err := f.workgroups.Create(f.ctx, WorkgroupInput{
		DepartmentID: dept.ID, LeadID: lead.ID, LeadTitleID: pi.ID,
		ProgramIDs: []uint{p.ID}, Name: "Lab", Location: "Room 1",
	})
	require.NoError(t, err)

	updated, err := f.workgroups.Update(f.ctx, wg.ID, WorkgroupInput{
		DepartmentID: dept.ID, LeadID: lead.ID, LeadTitleID: pi.ID,
		Name: "Renamed Lab", Location: "Room 2",
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Programs)
	assert.Equal(t, "Renamed Lab, X", updated.String())
	assert.Equal(t, "Principal Investigator", updated.LeadTitle.String())

	_, err = f.workgroups.Update(f.ctx, 999, WorkgroupInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkgroupListOrderedByName(t *testing.T) {
	f := newFixture(t)
	lead := f.user("lead")
	pi := f.title("Principal Investigator")
	inst := f.institution("X University", "X", nil)
	dept := f.department(inst, lead, "Physics", "PHYS")

	for _, name := range []string{"Gamma", "Alpha", "Beta"} {
		_, err := f.workgroups.Create(f.ctx, WorkgroupInput{
			DepartmentID: dept.ID, LeadID: lead.ID, LeadTitleID: pi.ID, Name: name, Location: "Room",
		})
		require.NoError(t, err)
	}

	groups, total, err := f.workgroups.List(f.ctx, dept.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	names := []string{groups[0].Name, groups[1].Name, groups[2].Name}
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, names)
}

func TestWorkgroupDelete(t *testing.T) {
	f := newFixture(t)
	lead := f.user("lead")
	pi := f.title("Principal Investigator")
	inst := f.institution("X University", "X", nil)
	dept := f.department(inst, lead, "Physics", "PHYS")
	p := f.program(inst, lead, "Optics", "OPT")

	wg, err := f.workgroups.Create(f.ctx, WorkgroupInput{
		DepartmentID: dept.ID, LeadID: lead.ID, LeadTitleID: pi.ID,
		ProgramIDs: []uint{p.ID}, Name: "Lab", Location: "Room 1",
	})
	require.NoError(t, err)

	// The lead title is in use.
	var refErr *ReferencedError
	require.ErrorAs(t, f.titles.Delete(f.ctx, pi.ID), &refErr)

	require.NoError(t, f.workgroups.Delete(f.ctx, wg.ID))
	_, err = f.workgroups.Get(f.ctx, wg.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var links int64
	require.NoError(t, f.db.Table("workgroup_programs").Count(&links).Error)
	assert.Zero(t, links)

	// Department and title are free again.
	require.NoError(t, f.titles.Delete(f.ctx, pi.ID))
	require.NoError(t, f.departments.Delete(f.ctx, dept.ID))
}
