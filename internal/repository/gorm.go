package repository

import (
	"context"
	"errors"

	"github.com/studylab/chatboard/internal/domain"
	"github.com/studylab/chatboard/internal/repository/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) CreateRoom(ctx context.Context, room *domain.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if room == nil {
		return errors.New("room is nil")
	}

	if err := r.db.WithContext(ctx).Create(toModelRoom(room)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrRoomExists
		}
		return err
	}
	return nil
}

func (r *GormRoomRepository) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var room model.Room
	err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return toDomainRoom(&room), nil
}

func (r *GormRoomRepository) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rooms []model.Room
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rooms).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.Room, 0, len(rooms))
	for i := range rooms {
		result = append(result, toDomainRoom(&rooms[i]))
	}
	return result, nil
}

func (r *GormRoomRepository) ListRoomsByMember(ctx context.Context, member domain.Principal) ([]*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Joins("JOIN members ON members.room_id = rooms.id").
		Where("members.member = ?", string(member)).
		Order("rooms.created_at").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Room, 0, len(rooms))
	for i := range rooms {
		result = append(result, toDomainRoom(&rooms[i]))
	}
	return result, nil
}

// DeleteRoom removes the room row and everything owned by it in one
// transaction. Deleting an absent room reports ErrRoomNotFound and
// touches nothing else.
func (r *GormRoomRepository) DeleteRoom(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&model.Member{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Room{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRoomNotFound
		}
		return nil
	})
}

func (r *GormRoomRepository) AddMember(ctx context.Context, roomID int64, member domain.Principal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room model.Room
		if err := tx.First(&room, "id = ?", roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		row := model.Member{RoomID: roomID, Member: string(member)}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	})
}

func (r *GormRoomRepository) RemoveMember(ctx context.Context, roomID int64, member domain.Principal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Where("room_id = ? AND member = ?", roomID, string(member)).
		Delete(&model.Member{}).Error
}

func (r *GormRoomRepository) ListMembers(ctx context.Context, roomID int64) ([]domain.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := r.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	var rows []model.Member
	if err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]domain.Principal, 0, len(rows))
	for _, row := range rows {
		members = append(members, domain.Principal(row.Member))
	}
	return members, nil
}

func (r *GormRoomRepository) AppendMessage(ctx context.Context, msg *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg == nil {
		return errors.New("message is nil")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room model.Room
		if err := tx.First(&room, "id = ?", msg.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		return tx.Create(toModelMessage(msg)).Error
	})
}

func (r *GormRoomRepository) ListMessages(ctx context.Context, roomID int64) ([]*domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := r.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	var rows []model.Message
	if err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	messages := make([]*domain.Message, 0, len(rows))
	for i := range rows {
		messages = append(messages, toDomainMessage(&rows[i]))
	}
	return messages, nil
}

type GormPostRepository struct {
	db *gorm.DB
}

func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) CreatePost(ctx context.Context, post *domain.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if post == nil {
		return errors.New("post is nil")
	}
	return r.db.WithContext(ctx).Create(toModelPost(post)).Error
}

func (r *GormPostRepository) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var post model.Post
	err := r.db.WithContext(ctx).Preload("Comments").First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return toDomainPost(&post), nil
}

func (r *GormPostRepository) ListPosts(ctx context.Context, category string) ([]*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Preload("Comments").Order("created_at desc")
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var posts []model.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.Post, 0, len(posts))
	for i := range posts {
		result = append(result, toDomainPost(&posts[i]))
	}
	return result, nil
}

func (r *GormPostRepository) AddComment(ctx context.Context, postID int64, comment *domain.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if comment == nil {
		return errors.New("comment is nil")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		row := model.Comment{
			ID:        comment.ID,
			PostID:    postID,
			Author:    string(comment.Author),
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
		}
		return tx.Create(&row).Error
	})
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return errors.New("user is nil")
	}

	if err := r.db.WithContext(ctx).Create(toModelUser(user)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user model.User
	err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toDomainUser(&user), nil
}

func toModelRoom(room *domain.Room) *model.Room {
	return &model.Room{
		ID:        room.ID,
		Name:      room.Name,
		Creator:   string(room.Creator),
		CreatedAt: room.CreatedAt.UTC(),
	}
}

func toDomainRoom(room *model.Room) *domain.Room {
	return &domain.Room{
		ID:        room.ID,
		Name:      room.Name,
		Creator:   domain.Principal(room.Creator),
		CreatedAt: room.CreatedAt.UTC(),
	}
}

func toModelMessage(msg *domain.Message) *model.Message {
	return &model.Message{
		ID:     msg.ID,
		RoomID: msg.RoomID,
		Author: string(msg.Author),
		Text:   msg.Text,
		Image:  msg.Image,
		Time:   msg.Time.UTC(),
	}
}

func toDomainMessage(msg *model.Message) *domain.Message {
	return &domain.Message{
		ID:     msg.ID,
		RoomID: msg.RoomID,
		Author: domain.Principal(msg.Author),
		Text:   msg.Text,
		Image:  msg.Image,
		Time:   msg.Time.UTC(),
	}
}

func toModelPost(post *domain.Post) *model.Post {
	comments := make([]model.Comment, 0, len(post.Comments))
	for _, c := range post.Comments {
		comments = append(comments, model.Comment{
			ID:        c.ID,
			PostID:    post.ID,
			Author:    string(c.Author),
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return &model.Post{
		ID:        post.ID,
		Title:     post.Title,
		Author:    string(post.Author),
		Content:   post.Content,
		Category:  post.Category,
		Likes:     post.Likes,
		Solved:    post.Solved,
		CreatedAt: post.CreatedAt.UTC(),
		Comments:  comments,
	}
}

func toDomainPost(post *model.Post) *domain.Post {
	comments := make([]domain.Comment, 0, len(post.Comments))
	for _, c := range post.Comments {
		comments = append(comments, domain.Comment{
			ID:        c.ID,
			Author:    domain.Principal(c.Author),
			Content:   c.Content,
			CreatedAt: c.CreatedAt.UTC(),
		})
	}
	return &domain.Post{
		ID:        post.ID,
		Title:     post.Title,
		Author:    domain.Principal(post.Author),
		Content:   post.Content,
		Category:  post.Category,
		Likes:     post.Likes,
		Solved:    post.Solved,
		Comments:  comments,
		CreatedAt: post.CreatedAt.UTC(),
	}
}

func toModelUser(user *domain.User) *model.User {
	return &model.User{
		ID:        user.ID,
		Username:  user.Username,
		Password:  user.Password,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.UTC(),
	}
}

func toDomainUser(user *model.User) *domain.User {
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		Password:  user.Password,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.UTC(),
	}
}
