package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// AssignmentData 作业文档的扁平字段表
// 由调用方(表单/UI层)构造并持有，合并器只读取它，不做修改
type AssignmentData struct {
	CollegeName    string `json:"college_name" validate:"omitempty,max=200"`
	CollegeCode    string `json:"college_code" validate:"omitempty,max=32"`
	ProgramName    string `json:"program_name"`
	ModuleName     string `json:"module_name"`
	ModuleCode     string `json:"module_code"`
	CourseName     string `json:"course_name"`
	InstructorName string `json:"instructor_name"`
	StudentName    string `json:"student_name"`
	RegistrationNo string `json:"registration_no"`

	// AssignmentType 作业类型：individual 或 group
	AssignmentType string `json:"assignment_type" validate:"omitempty,oneof=individual group"`

	AssignmentTask string    `json:"assignment_task"`
	Title          string    `json:"title"`
	SubmissionDate time.Time `json:"submission_date"`

	GroupMembers    []GroupMember    `json:"group_members" validate:"dive"`
	Representatives []Representative `json:"representatives" validate:"dive"`

	// AssignmentContent AI生成的正文内容，核心只负责排版，不做语义校验
	AssignmentContent string      `json:"assignment_content"`
	References        []Reference `json:"references" validate:"dive"`

	FontFamily string  `json:"font_family"`
	FontSize   float64 `json:"font_size" validate:"omitempty,gte=6,lte=72"`

	// Extra 未预期的封面/模板字段
	// 上游表单数据是弱类型的，未映射到具体字段的值放在这里，合并时统一做字符串转换
	Extra map[string]interface{} `json:"extra"`
}

// GroupMember 小组成员
type GroupMember struct {
	Name           string `json:"name"`
	RegistrationNo string `json:"registration_no"`
	PhoneNumber    string `json:"phone_number"`
}

// Representative 小组代表
type Representative struct {
	Name           string `json:"name"`
	Role           string `json:"role"`
	RegistrationNo string `json:"registration_no"`
}

// Reference 参考文献条目
// Authors和Author是上游数据的两种写法，格式化时优先使用Authors
type Reference struct {
	Authors string `json:"authors"`
	Author  string `json:"author"`
	Year    string `json:"year"`
	Title   string `json:"title"`
	Source  string `json:"source"`
	URL     string `json:"url"`
}

var validate = validator.New()

// Validate 校验字段表的结构约束
func (a *AssignmentData) Validate() error {
	return validate.Struct(a)
}

// IsGroup 是否为小组作业
func (a *AssignmentData) IsGroup() bool {
	return a.AssignmentType == "group"
}
