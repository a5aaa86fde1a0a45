package template

import (
	"strconv"
	"strings"

	"github.com/fyerfyer/assignment-doc-engine/internal/models"
	"github.com/fyerfyer/assignment-doc-engine/internal/rebuild"
)

// DefaultCollegeName 学院名称缺失时使用的固定机构名
const DefaultCollegeName = "UNIVERSITY OF MALAWI"

// RowVars 表格行克隆用的键值对
type RowVars map[string]string

// TemplateVars 归一化后的模板变量表
// 标量做字符串转换，列表过滤后重新编号，布尔标记驱动条件块
type TemplateVars struct {
	Scalars map[string]string
	Flags   map[string]bool
	Members []RowVars
	Reps    []RowVars
}

// BuildVariables 把字段表归一化成模板变量
// defaultCollegeName为空时使用包级默认机构名
func BuildVariables(data *models.AssignmentData, defaultCollegeName string) *TemplateVars {
	if defaultCollegeName == "" {
		defaultCollegeName = DefaultCollegeName
	}

	vars := &TemplateVars{
		Scalars: make(map[string]string),
		Flags:   make(map[string]bool),
	}
	if data == nil {
		data = &models.AssignmentData{}
	}

	// 未映射的扩展字段先进表，已知字段随后覆盖同名键
	for key, value := range data.Extra {
		vars.Scalars[key] = models.CoerceString(value)
	}

	collegeName := strings.TrimSpace(data.CollegeName)
	if collegeName == "" {
		collegeName = defaultCollegeName
	}

	vars.Scalars["college_name"] = collegeName
	vars.Scalars["college_code"] = data.CollegeCode
	vars.Scalars["program_name"] = data.ProgramName
	vars.Scalars["module_name"] = data.ModuleName
	vars.Scalars["module_code"] = data.ModuleCode
	vars.Scalars["course_name"] = data.CourseName
	vars.Scalars["instructor_name"] = data.InstructorName
	vars.Scalars["student_name"] = data.StudentName
	vars.Scalars["registration_no"] = data.RegistrationNo
	vars.Scalars["assignment_type"] = data.AssignmentType
	vars.Scalars["assignment_task"] = data.AssignmentTask
	vars.Scalars["title"] = data.Title
	vars.Scalars["submission_date"] = models.FormatDate(data.SubmissionDate)
	vars.Scalars["font_family"] = data.FontFamily
	if data.FontSize > 0 {
		vars.Scalars["font_size"] = strconv.FormatFloat(data.FontSize, 'f', -1, 64)
	} else {
		vars.Scalars["font_size"] = ""
	}

	vars.Members = filterMembers(data.GroupMembers)
	vars.Reps = mapRepresentatives(data.Representatives)

	vars.Flags["is_group"] = data.IsGroup()
	vars.Flags["has_group_members"] = len(vars.Members) > 0
	vars.Flags["has_representatives"] = len(vars.Reps) > 0
	vars.Flags["has_references"] = len(rebuild.FormatReferences(data.References)) > 0

	return vars
}

// filterMembers 过滤并重映射小组成员
// 姓名和注册号都为空的条目丢弃，保留的按输入顺序编1开始的序号
func filterMembers(members []models.GroupMember) []RowVars {
	var rows []RowVars
	for _, m := range members {
		name := strings.TrimSpace(m.Name)
		regNo := strings.TrimSpace(m.RegistrationNo)
		if name == "" && regNo == "" {
			continue
		}
		rows = append(rows, RowVars{
			"sn":              strconv.Itoa(len(rows) + 1),
			"name":            name,
			"registration_no": regNo,
			"phone_number":    strings.TrimSpace(m.PhoneNumber),
		})
	}
	return rows
}

// mapRepresentatives 重映射小组代表列表
func mapRepresentatives(reps []models.Representative) []RowVars {
	var rows []RowVars
	for _, r := range reps {
		name := strings.TrimSpace(r.Name)
		regNo := strings.TrimSpace(r.RegistrationNo)
		if name == "" && regNo == "" {
			continue
		}
		rows = append(rows, RowVars{
			"sn":              strconv.Itoa(len(rows) + 1),
			"name":            name,
			"role":            strings.TrimSpace(r.Role),
			"registration_no": regNo,
		})
	}
	return rows
}
