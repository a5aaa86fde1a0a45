package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/assignment-doc-engine/internal/models"
)

func TestBuildVariablesScalars(t *testing.T) {
	data := &models.AssignmentData{
		CollegeName:    "Chancellor College",
		CollegeCode:    "CC",
		ModuleName:     "Operating Systems",
		StudentName:    "Jane Banda",
		RegistrationNo: "BSC-01-23",
		SubmissionDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		FontSize:       12,
	}

	vars := BuildVariables(data, "")

	assert.Equal(t, "Chancellor College", vars.Scalars["college_name"])
	assert.Equal(t, "CC", vars.Scalars["college_code"])
	assert.Equal(t, "Operating Systems", vars.Scalars["module_name"])
	assert.Equal(t, "Jane Banda", vars.Scalars["student_name"])
	assert.Equal(t, "09/03/2026", vars.Scalars["submission_date"])
	assert.Equal(t, "12", vars.Scalars["font_size"])
}

func TestBuildVariablesCollegeDefault(t *testing.T) {
	vars := BuildVariables(&models.AssignmentData{CollegeName: "  "}, "")
	assert.Equal(t, DefaultCollegeName, vars.Scalars["college_name"])

	vars = BuildVariables(nil, "POLYTECHNIC")
	assert.Equal(t, "POLYTECHNIC", vars.Scalars["college_name"])
}

func TestBuildVariablesExtraOverriddenByTypedFields(t *testing.T) {
	data := &models.AssignmentData{
		StudentName: "Typed Name",
		Extra: map[string]interface{}{
			"student_name": "Extra Name",
			"campus":       "Zomba",
			"year":         2026,
			"approved":     true,
		},
	}

	vars := BuildVariables(data, "")

	// 已知字段覆盖扩展字段的同名键，未映射的扩展键保留
	assert.Equal(t, "Typed Name", vars.Scalars["student_name"])
	assert.Equal(t, "Zomba", vars.Scalars["campus"])
	assert.Equal(t, "2026", vars.Scalars["year"])
	assert.Equal(t, "true", vars.Scalars["approved"])
}

func TestFilterMembersKeepsPartialEntries(t *testing.T) {
	data := &models.AssignmentData{
		AssignmentType: "group",
		GroupMembers: []models.GroupMember{
			{Name: "", RegistrationNo: "X1"},
			{Name: "Jane", RegistrationNo: ""},
		},
	}

	vars := BuildVariables(data, "")

	// 只要姓名或注册号有一个非空就保留，序号按保留顺序从1编起
	require.Len(t, vars.Members, 2)
	assert.Equal(t, "1", vars.Members[0]["sn"])
	assert.Equal(t, "X1", vars.Members[0]["registration_no"])
	assert.Equal(t, "2", vars.Members[1]["sn"])
	assert.Equal(t, "Jane", vars.Members[1]["name"])
}

func TestFilterMembersDropsEmptyAndRenumbers(t *testing.T) {
	members := []models.GroupMember{
		{Name: "A", RegistrationNo: "R1"},
		{Name: "  ", RegistrationNo: ""},
		{Name: "B", RegistrationNo: "R3", PhoneNumber: " 099 "},
	}

	rows := filterMembers(members)

	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0]["sn"])
	assert.Equal(t, "A", rows[0]["name"])
	assert.Equal(t, "2", rows[1]["sn"])
	assert.Equal(t, "B", rows[1]["name"])
	assert.Equal(t, "099", rows[1]["phone_number"])
}

func TestBuildVariablesFlags(t *testing.T) {
	group := &models.AssignmentData{
		AssignmentType: "group",
		GroupMembers:   []models.GroupMember{{Name: "A"}},
		Representatives: []models.Representative{
			{Name: "Lead", Role: "Chair"},
		},
		References: []models.Reference{{Title: "Ref"}},
	}

	vars := BuildVariables(group, "")
	assert.True(t, vars.Flags["is_group"])
	assert.True(t, vars.Flags["has_group_members"])
	assert.True(t, vars.Flags["has_representatives"])
	assert.True(t, vars.Flags["has_references"])

	individual := BuildVariables(&models.AssignmentData{}, "")
	assert.False(t, individual.Flags["is_group"])
	assert.False(t, individual.Flags["has_group_members"])
	assert.False(t, individual.Flags["has_representatives"])
	assert.False(t, individual.Flags["has_references"])
}
