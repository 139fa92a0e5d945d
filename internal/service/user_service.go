package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"skillcheck_backend/internal/model"
	"skillcheck_backend/internal/repository"
	"skillcheck_backend/internal/util"

	"github.com/google/uuid"
)

// UserService 处理协作者档案相关的业务逻辑
type UserService struct {
	UserRepo *repository.UserRepository
	TechRepo *repository.TechnologyRepository
	Storage  *StorageService
}

func NewUserService(userRepo *repository.UserRepository, techRepo *repository.TechnologyRepository, storage *StorageService) *UserService {
	return &UserService{
		UserRepo: userRepo,
		TechRepo: techRepo,
		Storage:  storage,
	}
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	return s.UserRepo.FindByID(id)
}

type ProfileUpdateRequest struct {
	Name string `json:"name"`
}

func (s *UserService) UpdateProfile(userID uint, req ProfileUpdateRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadAvatar 上传头像并更新档案，旧头像留给存储端自行清理
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, fileHeader *multipart.FileHeader) (string, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", err
	}

	// 按文件内容深度校验类型，不信任请求头
	probe, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	contentType, err := util.ValidateMimeType(probe, []string{util.MimeImage})
	probe.Close()
	if err != nil || !util.IsImage(contentType) {
		return "", util.ErrUnsupportedFile
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(fileHeader.Filename)
	filename := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.New().String(), ext)

	url, err := s.Storage.Upload(ctx, filename, src, fileHeader.Size, contentType)
	if err != nil {
		return "", err
	}

	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}
	return url, nil
}

// TestHistoryEntry 协作者测试历史的一行
type TestHistoryEntry struct {
	TestID      string    `json:"testId"`
	Score       int       `json:"score"`
	SuccessRate int       `json:"successRate"`
	TakenAt     time.Time `json:"takenAt"`
}

func (s *UserService) TestHistory(userID uint) ([]TestHistoryEntry, error) {
	taken, err := s.UserRepo.ListTestsTaken(userID)
	if err != nil {
		return nil, err
	}
	entries := make([]TestHistoryEntry, len(taken))
	for i, t := range taken {
		entries[i] = TestHistoryEntry{
			TestID:      t.TestID,
			Score:       t.Score,
			SuccessRate: t.SuccessRate,
			TakenAt:     t.TakenAt,
		}
	}
	return entries, nil
}

// RatePoint 某技术方向成功率轨迹上的一个点
type RatePoint struct {
	SuccessRate int       `json:"successRate"`
	RecordedAt  time.Time `json:"recordedAt"`
}

// TechnologyProgress 按时间正序返回协作者在某技术方向的成功率轨迹
func (s *UserService) TechnologyProgress(userID, technologyID uint, limit int) ([]RatePoint, error) {
	if _, err := s.TechRepo.FindByID(technologyID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rates, err := s.UserRepo.LatestTechnologyRates(s.UserRepo.DB, userID, technologyID, limit)
	if err != nil {
		return nil, err
	}
	// 仓储按时间倒序返回，这里翻转成正序方便画折线
	points := make([]RatePoint, len(rates))
	for i, r := range rates {
		points[len(rates)-1-i] = RatePoint{SuccessRate: r.SuccessRate, RecordedAt: r.RecordedAt}
	}
	return points, nil
}

func (s *UserService) TouchLastSeen(userID uint) {
	_ = s.UserRepo.UpdateLastSeen(userID)
}
