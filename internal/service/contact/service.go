// Package contact 首次联系编排：投递职位、求职者发起沟通、雇主直接联系、打开会话
// 会话、申请和种子消息在同一个事务中写入；实时通知只在提交之后发送，失败不影响结果
package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"job_chat_server/internal/dao/mysql/repository"
	"job_chat_server/internal/dto/request"
	"job_chat_server/internal/dto/respond"
	"job_chat_server/internal/gateway/hub"
	"job_chat_server/internal/model"
	"job_chat_server/internal/service/conversation"
	"job_chat_server/internal/service/message"
	"job_chat_server/pkg/constants"
	"job_chat_server/pkg/enum/application/application_status_enum"
	"job_chat_server/pkg/enum/message/message_kind_enum"
	"job_chat_server/pkg/enum/user/user_role_enum"
	"job_chat_server/pkg/enum/ws/ws_event_enum"
	"job_chat_server/pkg/errorx"
	"job_chat_server/pkg/util/convkey"
)

// 默认问候语
const (
	applyGreeting     = "您好！我已投递了职位“%s”。"
	startChatGreeting = "您好！我对职位“%s”很感兴趣。"
	initiateGreeting  = "您好，我想和您聊聊合作机会。"
)

// contactService 编排实现
type contactService struct {
	repos *repository.Repositories
	hub   hub.GroupHub
}

// NewContactService 构造函数
func NewContactService(repos *repository.Repositories, h hub.GroupHub) *contactService {
	return &contactService{repos: repos, hub: h}
}

// seedResult 事务内写入的会话和种子消息
type seedResult struct {
	conversation   *model.Conversation
	created        bool
	messages       []*model.Message
	resumeAttached bool
}

func (r *seedResult) messageIds() []uint {
	ids := make([]uint, 0, len(r.messages))
	for _, m := range r.messages {
		ids = append(ids, m.ID)
	}
	return ids
}

// Apply 求职者投递职位
// 已投递过时返回 Conflict，force 为 true 时删除旧申请后重新投递
func (s *contactService) Apply(ctx context.Context, callerID uint, req request.ApplyRequest) (*respond.ApplyRespond, error) {
	applicant, err := s.requireRole(ctx, callerID, user_role_enum.JobSeeker, "只有求职者可以投递职位")
	if err != nil {
		return nil, err
	}
	job, employer, err := s.activeJob(ctx, req.JobId)
	if err != nil {
		return nil, err
	}
	if employer.ID == applicant.ID {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能投递自己发布的职位")
	}
	resume, err := s.ownedResume(ctx, req.ResumeId, applicant.ID)
	if err != nil {
		return nil, err
	}

	greeting := strings.TrimSpace(req.Message)
	if greeting == "" {
		greeting = fmt.Sprintf(applyGreeting, job.Title)
	}

	var (
		application *model.JobApplication
		seed        *seedResult
	)
	err = s.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		existing, err := txRepos.Application.FindByJobAndApplicant(ctx, job.ID, applicant.ID)
		switch {
		case err == nil:
			if !req.Force {
				return errorx.New(errorx.CodeConflict, "您已投递过该职位")
			}
			if err := txRepos.Application.Delete(ctx, existing.ID); err != nil {
				return err
			}
			zap.L().Info("previous application replaced",
				zap.Uint("application_id", existing.ID), zap.Uint("job_id", job.ID), zap.Uint("applicant_id", applicant.ID))
		case !errorx.IsNotFound(err):
			return err
		}

		application = &model.JobApplication{
			JobId:       job.ID,
			ApplicantId: applicant.ID,
			CoverLetter: req.CoverLetter,
			Status:      application_status_enum.Pending,
		}
		if resume != nil {
			application.ResumeId = &resume.ID
		}
		if err := txRepos.Application.Create(ctx, application); err != nil {
			return err
		}

		seed, err = s.seedConversation(ctx, txRepos, applicant, employer.ID, &job.ID, greeting, resume, req.CoverLetter)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.broadcastSeeds(ctx, seed, applicant)
	hub.Notify(ctx, s.hub, convkey.NotificationGroup(employer.ID), respond.NewApplicationEvent{
		Type: ws_event_enum.NewApplication,
		Data: respond.NewApplicationData{
			ApplicationId:  application.ID,
			ConversationId: seed.conversation.ConversationKey,
			JobId:          job.ID,
			JobTitle:       job.Title,
			Applicant: respond.ApplicantRespond{
				Id:        applicant.ID,
				Name:      applicant.DisplayName(),
				HasResume: resume != nil,
			},
		},
		Timestamp: constants.FormatTime(time.Now()),
	})
	if seed.created {
		s.notifyNewConversation(ctx, applicant.ID, seed.conversation, employer, job, "")
	}

	return &respond.ApplyRespond{
		ApplicationId:  application.ID,
		ConversationPk: seed.conversation.ID,
		ConversationId: seed.conversation.ConversationKey,
		Created:        seed.created,
		MessageIds:     seed.messageIds(),
		ResumeAttached: seed.resumeAttached,
	}, nil
}

// StartChat 求职者就某个职位主动发起沟通
func (s *contactService) StartChat(ctx context.Context, callerID uint, req request.StartChatRequest) (*respond.ChatOpenedRespond, error) {
	seeker, err := s.requireRole(ctx, callerID, user_role_enum.JobSeeker, "只有求职者可以就职位发起沟通")
	if err != nil {
		return nil, err
	}
	job, employer, err := s.activeJob(ctx, req.JobId)
	if err != nil {
		return nil, err
	}
	if employer.ID == seeker.ID {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能与自己发起沟通")
	}
	resume, err := s.ownedResume(ctx, req.ResumeId, seeker.ID)
	if err != nil {
		return nil, err
	}

	greeting := strings.TrimSpace(req.InitialMessage)
	if greeting == "" {
		greeting = fmt.Sprintf(startChatGreeting, job.Title)
	}

	var seed *seedResult
	err = s.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		var err error
		seed, err = s.seedConversation(ctx, txRepos, seeker, employer.ID, &job.ID, greeting, resume, "")
		return err
	})
	if err != nil {
		return nil, err
	}

	s.broadcastSeeds(ctx, seed, seeker)
	s.notifyNewConversation(ctx, seeker.ID, seed.conversation, employer, job, "")
	s.notifyNewConversation(ctx, employer.ID, seed.conversation, seeker, job, "")

	return chatOpened(seed), nil
}

// InitiateChat 雇主直接联系求职者，会话不关联职位
func (s *contactService) InitiateChat(ctx context.Context, callerID uint, req request.InitiateChatRequest) (*respond.ChatOpenedRespond, error) {
	employer, err := s.requireRole(ctx, callerID, user_role_enum.Employer, "只有雇主可以直接联系求职者")
	if err != nil {
		return nil, err
	}
	if req.RecipientId == employer.ID {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能与自己发起沟通")
	}
	recipient, err := s.repos.User.FindById(ctx, req.RecipientId)
	if err != nil {
		return nil, err
	}
	if recipient.Role != user_role_enum.JobSeeker {
		return nil, errorx.New(errorx.CodeInvalidParam, "只能直接联系求职者")
	}

	body := strings.TrimSpace(req.Message)
	if body == "" {
		body = initiateGreeting
	}

	var seed *seedResult
	err = s.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		var err error
		seed, err = s.seedConversation(ctx, txRepos, employer, recipient.ID, nil, body, nil, "")
		return err
	})
	if err != nil {
		return nil, err
	}

	s.broadcastSeeds(ctx, seed, employer)
	s.notifyNewConversation(ctx, recipient.ID, seed.conversation, employer, nil, body)
	if seed.created {
		s.notifyNewConversation(ctx, employer.ID, seed.conversation, recipient, nil, "")
	}

	return chatOpened(seed), nil
}

// OpenConversation 打开与某用户的会话，不存在时创建，不写种子消息
func (s *contactService) OpenConversation(ctx context.Context, callerID uint, req request.CreateOrGetConversationRequest) (*respond.ChatOpenedRespond, error) {
	caller, err := s.currentUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if req.UserId == caller.ID {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能与自己建立会话")
	}
	other, err := s.repos.User.FindById(ctx, req.UserId)
	if err != nil {
		return nil, err
	}
	var job *model.Job
	if req.JobId != nil {
		if job, err = s.repos.Job.FindById(ctx, *req.JobId); err != nil {
			return nil, err
		}
	}

	var jobID *uint
	if job != nil {
		jobID = &job.ID
	}
	var seed seedResult
	err = s.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		var err error
		seed.conversation, seed.created, err = conversation.ResolveOrCreateTx(ctx, txRepos, caller.ID, other.ID, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if seed.created {
		s.notifyNewConversation(ctx, caller.ID, seed.conversation, other, job, "")
		s.notifyNewConversation(ctx, other.ID, seed.conversation, caller, job, "")
	}
	return chatOpened(&seed), nil
}

// seedConversation 事务内：查找或创建会话，写入问候语，有简历时再写一条简历摘要
func (s *contactService) seedConversation(
	ctx context.Context,
	txRepos *repository.Repositories,
	sender *model.UserInfo,
	counterpartyID uint,
	jobID *uint,
	greeting string,
	resume *model.Resume,
	coverLetter string,
) (*seedResult, error) {
	conv, created, err := conversation.ResolveOrCreateTx(ctx, txRepos, sender.ID, counterpartyID, jobID)
	if err != nil {
		return nil, err
	}
	result := &seedResult{conversation: conv, created: created}

	first, err := message.AppendTx(ctx, txRepos, conv, sender.ID, message_kind_enum.Text, greeting)
	if err != nil {
		return nil, err
	}
	result.messages = append(result.messages, first)

	if resume != nil {
		body, err := NewResumeSummary(resume, sender, coverLetter).Encode()
		if err != nil {
			return nil, errorx.Wrap(err, errorx.CodeServerBusy, "生成简历摘要失败")
		}
		summary, err := message.AppendTx(ctx, txRepos, conv, sender.ID, message_kind_enum.ResumeSummary, body)
		if err != nil {
			return nil, err
		}
		result.messages = append(result.messages, summary)
		result.resumeAttached = true
	}
	return result, nil
}

// broadcastSeeds 提交后把种子消息推送到会话分组
func (s *contactService) broadcastSeeds(ctx context.Context, seed *seedResult, sender *model.UserInfo) {
	group := convkey.ConversationGroup(seed.conversation.ConversationKey)
	for _, m := range seed.messages {
		hub.Notify(ctx, s.hub, group, respond.NewChatMessageEvent(m, seed.conversation.ConversationKey, sender.DisplayName()))
	}
}

// notifyNewConversation 通知 recipientID 刷新会话列表，other 是对 recipient 而言的对方
func (s *contactService) notifyNewConversation(ctx context.Context, recipientID uint, conv *model.Conversation, other *model.UserInfo, job *model.Job, initialMessage string) {
	hub.Notify(ctx, s.hub, convkey.NotificationGroup(recipientID), respond.NewConversationEvent{
		Type:           ws_event_enum.NewConversation,
		ConversationId: conv.ConversationKey,
		OtherUser:      respond.NewOtherUser(other),
		Job:            respond.NewJobBrief(job),
		InitialMessage: initialMessage,
		Timestamp:      constants.FormatTime(time.Now()),
	})
}

// currentUser 以数据库中的用户为准，令牌里的用户已不存在时视为未登录
func (s *contactService) currentUser(ctx context.Context, userID uint) (*model.UserInfo, error) {
	u, err := s.repos.User.FindById(ctx, userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(err, errorx.CodeUnauthorized, "用户不存在")
		}
		return nil, err
	}
	return u, nil
}

func (s *contactService) requireRole(ctx context.Context, userID uint, role, msg string) (*model.UserInfo, error) {
	u, err := s.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role != role {
		return nil, errorx.New(errorx.CodeForbidden, msg)
	}
	return u, nil
}

// activeJob 查询仍在招聘的职位及其雇主
func (s *contactService) activeJob(ctx context.Context, jobID uint) (*model.Job, *model.UserInfo, error) {
	job, err := s.repos.Job.FindById(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if !job.IsActive {
		return nil, nil, errorx.Newf(errorx.CodeNotFound, "职位 %d 已下线", jobID)
	}
	employer, err := s.repos.User.FindById(ctx, job.CompanyId)
	if err != nil {
		return nil, nil, err
	}
	return job, employer, nil
}

// ownedResume resumeID 为空时返回 nil；简历不属于 ownerID 时视为不存在
func (s *contactService) ownedResume(ctx context.Context, resumeID *uint, ownerID uint) (*model.Resume, error) {
	if resumeID == nil {
		return nil, nil
	}
	return s.repos.Resume.FindByIdAndOwner(ctx, *resumeID, ownerID)
}

func chatOpened(seed *seedResult) *respond.ChatOpenedRespond {
	return &respond.ChatOpenedRespond{
		ConversationPk: seed.conversation.ID,
		ConversationId: seed.conversation.ConversationKey,
		Created:        seed.created,
		MessageIds:     seed.messageIds(),
		ResumeAttached: seed.resumeAttached,
	}
}
