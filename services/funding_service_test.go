package services

import (
	"testing"
	"time"

	"github.com/sahilchouksey/go-institutions/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFundingListedByEndDateDescending(t *testing.T) {
	f := newFixture(t)
	pi := f.user("jdoe")
	grant := f.fundingType("Grant")

	f.award(pi, grant, "AS00001", "2019-06-30")
	f.award(pi, grant, "AS00002", "2021-06-30")
	f.award(pi, grant, "AS00003", "2020-06-30")

	awards, total, err := f.funding.List(f.ctx, 0, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	years := make([]int, 0, len(awards))
	for _, a := range awards {
		years = append(years, time.Time(a.EndDate).Year())
	}
	assert.Equal(t, []int{2021, 2020, 2019}, years)
}

func TestFundingDisplay(t *testing.T) {
	f := newFixture(t)
	pi := f.user("jdoe")
	grant := f.fundingType("Grant")

	award := f.award(pi, grant, "AS12345", "2021-06-30")
	assert.Equal(t, "AS12345-", award.DeptIDGrantCode())
	assert.Equal(t, "AS12345- (R01 Grant, jdoe)", award.String())
	assert.Equal(t, model.NoAwardNumber, award.Number)
}

func TestFundingValidation(t *testing.T) {
	f := newFixture(t)
	pi := f.user("jdoe")
	grant := f.fundingType("Grant")

	valid := FundingInput{
		AwardedToID: pi.ID, FundingTypeID: grant.ID, FundingSource: "NSF",
		Name: "Award", ShortName: "AW", Number: "N/A", DeptID: "AS12345",
		GrantCode: "ABC123", StartDate: "2020-01-01", EndDate: "2021-01-01",
	}

	tests := []struct {
		name   string
		mutate func(in *FundingInput)
		field  string
	}{
		{"dept id too long", func(in *FundingInput) { in.DeptID = "AS123456" }, "dept_id"},
		{"grant code too long", func(in *FundingInput) { in.GrantCode = "ABCDEFG" }, "grant_code"},
		{"missing start date", func(in *FundingInput) { in.StartDate = "" }, "start_date"},
		{"malformed end date", func(in *FundingInput) { in.EndDate = "06/30/2021" }, "end_date"},
		{"unknown recipient", func(in *FundingInput) { in.AwardedToID = 999 }, "awarded_to_id"},
		{"unknown type", func(in *FundingInput) { in.FundingTypeID = 999 }, "funding_type_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.funding.Create(f.ctx, in)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.True(t, vErr.HasField(tt.field), "fields: %v", vErr.Fields)
		})
	}

	award, err := f.funding.Create(f.ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, "AS12345-ABC123", award.DeptIDGrantCode())
}

func TestFundingUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	pi := f.user("jdoe")
	grant := f.fundingType("Grant")
	award := f.award(pi, grant, "AS12345", "2021-06-30")

	updated, err := f.funding.Update(f.ctx, award.ID, FundingInput{
		AwardedToID: pi.ID, FundingTypeID: grant.ID, FundingSource: "NIH",
		Name: "Renewal", ShortName: "R01", Number: "5R01GM000000", DeptID: "AS12345",
		GrantCode: "G1", StartDate: "2021-07-01", EndDate: "2026-06-30",
	})
	require.NoError(t, err)
	assert.Equal(t, "AS12345-G1", updated.DeptIDGrantCode())
	assert.Equal(t, 2026, time.Time(updated.EndDate).Year())

	require.NoError(t, f.funding.Delete(f.ctx, award.ID))
	assert.ErrorIs(t, f.funding.Delete(f.ctx, award.ID), ErrNotFound)
}

func TestFundingEndingBetween(t *testing.T) {
	f := newFixture(t)
	pi := f.user("jdoe")
	grant := f.fundingType("Grant")

	f.award(pi, grant, "AS00001", "2024-01-10")
	inside := f.award(pi, grant, "AS00002", "2024-02-01")
	f.award(pi, grant, "AS00003", "2024-06-01")

	from := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	awards, err := f.funding.EndingBetween(f.ctx, from, from.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, inside.ID, awards[0].ID)
	assert.Equal(t, "jdoe", awards[0].AwardedTo.Username)
}

func TestFundingReferencesAreProtected(t *testing.T) {
	f := newFixture(t)
	pi := f.user("jdoe")
	grant := f.fundingType("Grant")
	f.award(pi, grant, "AS12345", "2021-06-30")

	var refErr *ReferencedError
	require.ErrorAs(t, f.fundingTypes.Delete(f.ctx, grant.ID), &refErr)
	assert.Equal(t, int64(1), refErr.Dependents["funding"])

	require.ErrorAs(t, f.users.Delete(f.ctx, pi.ID), &refErr)
	assert.Equal(t, "user", refErr.Model)
}
