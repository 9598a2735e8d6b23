package user_role_enum

const (
	Employer  = "employer"  // 雇主
	JobSeeker = "jobseeker" // 求职者
)

// Valid 判断角色字符串是否合法
func Valid(role string) bool {
	return role == Employer || role == JobSeeker
}
