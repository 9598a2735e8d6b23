package contact

import (
	"encoding/json"

	"job_chat_server/internal/model"
	"job_chat_server/pkg/constants"
)

// resumeAttachedType 简历摘要消息体中的 type 字段
const resumeAttachedType = "resume_attached"

// ResumeSummary 简历摘要消息体
// 可选字段为空表示简历中没有填写，序列化时省略
type ResumeSummary struct {
	Type                string   `json:"type"`
	ResumeId            uint     `json:"resume_id"`
	ResumeTitle         string   `json:"resume_title"`
	ApplicantName       string   `json:"applicant_name"`
	DesiredPosition     *string  `json:"desired_position,omitempty"`
	Skills              []string `json:"skills"`
	ProfessionalSummary *string  `json:"professional_summary,omitempty"`
	SalaryExpectation   *int     `json:"salary_expectation,omitempty"`
	PreferredEmployment *string  `json:"preferred_employment,omitempty"`
	CoverLetter         *string  `json:"cover_letter,omitempty"`
}

// NewResumeSummary 由简历和求职信生成摘要，技能和长文本按上限截断
func NewResumeSummary(resume *model.Resume, applicant *model.UserInfo, coverLetter string) ResumeSummary {
	skills := resume.Skills
	if len(skills) > constants.SKILL_SUMMARY_LIMIT {
		skills = skills[:constants.SKILL_SUMMARY_LIMIT]
	}
	if skills == nil {
		skills = []string{}
	}
	return ResumeSummary{
		Type:                resumeAttachedType,
		ResumeId:            resume.ID,
		ResumeTitle:         resume.Title,
		ApplicantName:       applicant.DisplayName(),
		DesiredPosition:     optional(resume.DesiredPosition, 0),
		Skills:              skills,
		ProfessionalSummary: optional(resume.ProfessionalSummary, constants.PROFESSIONAL_SUMMARY_SIZE),
		SalaryExpectation:   resume.SalaryExpectation,
		PreferredEmployment: optional(resume.PreferredEmployment, 0),
		CoverLetter:         optional(coverLetter, constants.COVER_LETTER_SUMMARY_SIZE),
	}
}

// Encode 序列化为消息正文
func (r ResumeSummary) Encode() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// optional 空串返回 nil；limit > 0 时按字符（而非字节）截断
func optional(s string, limit int) *string {
	if s == "" {
		return nil
	}
	if limit > 0 {
		if r := []rune(s); len(r) > limit {
			s = string(r[:limit])
		}
	}
	return &s
}
