// Package conversation 会话目录：按规范 key 查找或创建两人会话，列出用户的会话
package conversation

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"job_chat_server/internal/dao/mysql/repository"
	myredis "job_chat_server/internal/dao/redis"
	"job_chat_server/internal/dto/respond"
	"job_chat_server/internal/model"
	"job_chat_server/pkg/constants"
	"job_chat_server/pkg/errorx"
	"job_chat_server/pkg/util/convkey"
)

const keyCachePrefix = "conversation_key_"

// conversationService 会话目录实现
type conversationService struct {
	repos  *repository.Repositories
	cache  myredis.AsyncCacheService
	keyTTL time.Duration
}

// NewConversationService 构造函数，keyTTL 为 0 时使用默认缓存时间
func NewConversationService(repos *repository.Repositories, cache myredis.AsyncCacheService, keyTTL time.Duration) *conversationService {
	if keyTTL <= 0 {
		keyTTL = constants.KEY_CACHE_TTL_MINUTES * time.Minute
	}
	return &conversationService{repos: repos, cache: cache, keyTTL: keyTTL}
}

// ResolveOrCreate 在独立事务中查找或创建 a、b 之间（可选职位）的会话
func (s *conversationService) ResolveOrCreate(ctx context.Context, a, b uint, jobID *uint) (*model.Conversation, bool, error) {
	var (
		conversation *model.Conversation
		created      bool
	)
	err := s.repos.Transaction(ctx, func(txRepos *repository.Repositories) error {
		var err error
		conversation, created, err = ResolveOrCreateTx(ctx, txRepos, a, b, jobID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return conversation, created, nil
}

// ResolveOrCreateTx 在调用方的事务中查找或创建会话
// 同一个 key 的并发调用最终落在同一行上：唯一索引挡住重复插入，输掉竞争的一方加锁重新读取
// 首次读取不加锁：InnoDB 对不存在的唯一键加锁读会持有间隙锁，两个事务随后插入会互相死锁
// 已有会话的参与者不完整时不新建行（key 唯一），而是补回参与者并按新建返回 created=true
func ResolveOrCreateTx(ctx context.Context, txRepos *repository.Repositories, a, b uint, jobID *uint) (*model.Conversation, bool, error) {
	if a == 0 || b == 0 {
		return nil, false, errorx.New(errorx.CodeInvalidParam, "会话参与者不能为空")
	}
	if a == b {
		return nil, false, errorx.New(errorx.CodeInvalidParam, "不能与自己建立会话")
	}
	if jobID != nil {
		id := *jobID
		jobID = &id
	}
	key := convkey.Build(a, b, jobID)

	existing, err := txRepos.Conversation.FindByKey(ctx, key, false)
	switch {
	case err == nil:
		if existing.HasParticipant(a) && existing.HasParticipant(b) && len(existing.Participants) == 2 {
			return existing, false, nil
		}
		zap.L().Warn("conversation participants inconsistent, re-attaching",
			zap.String("conversation_key", key),
			zap.Uint("conversation_id", existing.ID),
			zap.Int("participants", len(existing.Participants)))
		if err := txRepos.Conversation.AddParticipants(ctx, existing.ID, a, b); err != nil {
			return nil, false, err
		}
		repaired, err := txRepos.Conversation.FindById(ctx, existing.ID)
		if err != nil {
			return nil, false, err
		}
		return repaired, true, nil
	case !errorx.IsNotFound(err):
		return nil, false, err
	}

	now := time.Now()
	conversation := &model.Conversation{
		ConversationKey: key,
		JobId:           jobID,
		LastMessageAt:   now,
	}
	inserted, err := txRepos.Conversation.CreateIfAbsent(ctx, conversation)
	if err != nil {
		return nil, false, err
	}
	if !inserted {
		// 可重复读下普通 SELECT 看不到对方刚提交的行，必须用加锁读取最新版本
		winner, err := txRepos.Conversation.FindByKey(ctx, key, true)
		if err != nil {
			return nil, false, err
		}
		return winner, false, nil
	}
	if err := txRepos.Conversation.AddParticipants(ctx, conversation.ID, a, b); err != nil {
		return nil, false, err
	}
	conversation.Participants = []model.ConversationParticipant{
		{ConversationId: conversation.ID, UserId: a, JoinedAt: now},
		{ConversationId: conversation.ID, UserId: b, JoinedAt: now},
	}
	zap.L().Info("conversation created", zap.String("conversation_key", key), zap.Uint("conversation_id", conversation.ID))
	return conversation, true, nil
}

// Lookup 按标识查找会话：纯数字按主键，否则按规范 key
// 找到后校验 userID 是参与者
func (s *conversationService) Lookup(ctx context.Context, userID uint, identifier string) (*model.Conversation, error) {
	var (
		conversation *model.Conversation
		err          error
	)
	if id, ok := convkey.ParseID(identifier); ok {
		conversation, err = s.repos.Conversation.FindById(ctx, id)
	} else {
		conversation, err = s.findByKey(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errorx.New(errorx.CodeForbidden, "不是该会话的参与者")
	}
	return conversation, nil
}

// LookupByKey 只按规范 key 查找，同样校验参与者
func (s *conversationService) LookupByKey(ctx context.Context, userID uint, key string) (*model.Conversation, error) {
	conversation, err := s.findByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errorx.New(errorx.CodeForbidden, "不是该会话的参与者")
	}
	return conversation, nil
}

// findByKey 先查 key -> id 缓存，缓存失效或出错时回源数据库
func (s *conversationService) findByKey(ctx context.Context, key string) (*model.Conversation, error) {
	if key == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "会话标识不能为空")
	}
	cacheKey := keyCachePrefix + key

	cached, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		zap.L().Warn("conversation key cache get failed", zap.String("key", cacheKey), zap.Error(err))
	} else if cached != "" {
		if id, perr := strconv.ParseUint(cached, 10, 64); perr == nil {
			conversation, err := s.repos.Conversation.FindById(ctx, uint(id))
			if err == nil && conversation.ConversationKey == key {
				return conversation, nil
			}
			if err != nil && !errorx.IsNotFound(err) {
				return nil, err
			}
		}
		if err := s.cache.Delete(ctx, cacheKey); err != nil {
			zap.L().Warn("conversation key cache delete failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	conversation, err := s.repos.Conversation.FindByKey(ctx, key, false)
	if err != nil {
		return nil, err
	}
	id := strconv.FormatUint(uint64(conversation.ID), 10)
	s.cache.SubmitTask(func() {
		if err := s.cache.Set(context.Background(), cacheKey, id, s.keyTTL); err != nil {
			zap.L().Warn("conversation key cache set failed", zap.String("key", cacheKey), zap.Error(err))
		}
	})
	return conversation, nil
}

// ListForParticipant 用户参与的全部会话，按最后消息时间、创建时间倒序
func (s *conversationService) ListForParticipant(ctx context.Context, userID uint) ([]respond.ConversationRespond, error) {
	conversations, err := s.repos.Conversation.FindByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(conversations) == 0 {
		return []respond.ConversationRespond{}, nil
	}
	return s.assemble(ctx, userID, conversations)
}

// GetConversation 单个会话详情
func (s *conversationService) GetConversation(ctx context.Context, userID uint, identifier string) (*respond.ConversationRespond, error) {
	conversation, err := s.Lookup(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}
	items, err := s.assemble(ctx, userID, []model.Conversation{*conversation})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// assemble 批量补齐参与者、职位、最后一条消息和未读数
func (s *conversationService) assemble(ctx context.Context, userID uint, conversations []model.Conversation) ([]respond.ConversationRespond, error) {
	convIDs := make([]uint, 0, len(conversations))
	userSet := make(map[uint]struct{})
	jobSet := make(map[uint]struct{})
	for _, c := range conversations {
		convIDs = append(convIDs, c.ID)
		for _, p := range c.Participants {
			userSet[p.UserId] = struct{}{}
		}
		if c.JobId != nil {
			jobSet[*c.JobId] = struct{}{}
		}
	}

	users, err := s.repos.User.FindByIds(ctx, keys(userSet))
	if err != nil {
		return nil, err
	}
	userMap := make(map[uint]*model.UserInfo, len(users))
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	jobMap := make(map[uint]*model.Job, len(jobSet))
	if len(jobSet) > 0 {
		jobs, err := s.repos.Job.FindByIds(ctx, keys(jobSet))
		if err != nil {
			return nil, err
		}
		for i := range jobs {
			jobMap[jobs[i].ID] = &jobs[i]
		}
	}

	latest, err := s.repos.Message.FindLatestByConversations(ctx, convIDs)
	if err != nil {
		return nil, err
	}
	unread, err := s.repos.Message.CountUnreadByConversations(ctx, userID, convIDs)
	if err != nil {
		return nil, err
	}

	items := make([]respond.ConversationRespond, 0, len(conversations))
	for _, c := range conversations {
		item := respond.ConversationRespond{
			Id:              c.ID,
			ConversationId:  c.ConversationKey,
			Participants:    make([]respond.ParticipantRespond, 0, len(c.Participants)),
			LastMessageTime: constants.FormatTime(c.LastMessageAt),
			UnreadCount:     unread[c.ID],
			CreatedAt:       constants.FormatTime(c.CreatedAt),
		}
		for _, p := range c.Participants {
			u, ok := userMap[p.UserId]
			if !ok {
				continue
			}
			participant := respond.NewParticipantRespond(u)
			item.Participants = append(item.Participants, participant)
			if p.UserId != userID && item.OtherUser == nil {
				other := participant
				item.OtherUser = &other
			}
		}
		if c.JobId != nil {
			item.Job = respond.NewJobBrief(jobMap[*c.JobId])
		}
		if m, ok := latest[c.ID]; ok {
			senderName := ""
			if u, ok := userMap[m.SenderId]; ok {
				senderName = u.DisplayName()
			}
			last := respond.NewMessageRespond(&m, c.ConversationKey, senderName)
			item.LastMessage = &last
		}
		items = append(items, item)
	}
	return items, nil
}

func keys(set map[uint]struct{}) []uint {
	out := make([]uint, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
