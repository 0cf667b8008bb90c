package server

import (
	"context"
	"errors"

	"github.com/eduplay/quizquest/internal/quiz"
)

// Avatars a player can pick at registration. The first is the default.
var Avatars = []string{
	"https://api.dicebear.com/7.x/avataaars/svg?seed=Felix",
	"https://api.dicebear.com/7.x/avataaars/svg?seed=Aneka",
	"https://api.dicebear.com/7.x/avataaars/svg?seed=Zack",
	"https://api.dicebear.com/7.x/avataaars/svg?seed=Bella",
	"https://api.dicebear.com/7.x/avataaars/svg?seed=Liam",
	"https://api.dicebear.com/7.x/avataaars/svg?seed=Molly",
}

const (
	seedAdminName   = "admin"
	seedAdminSecret = "admin123"
)

// Seed populates a fresh database: the admin account and a starter
// question bank. Existing data is left alone, so restarting the
// service never clobbers live state.
func (s *DocStore) Seed(ctx context.Context) error {
	if _, err := s.UserByName(ctx, seedAdminName); errors.Is(err, ErrNotFound) {
		admin, err := s.CreateUser(ctx, seedAdminName, seedAdminSecret, Avatars[0], "Admin")
		if err != nil {
			return err
		}
		admin.IsAdmin = true
		if err := s.UpsertUser(ctx, admin); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	existing, err := s.Questions(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	_, err = s.AppendQuestions(ctx, seedQuestions)
	return err
}

var seedQuestions = []quiz.Question{
	{
		ID:                 "seed-1",
		Kind:               quiz.MultipleChoice,
		Prompt:             "Ai là vị vua đầu tiên của nước Văn Lang?",
		Choices:            []string{"Hùng Vương", "An Dương Vương", "Lý Thái Tổ", "Đinh Bộ Lĩnh"},
		CorrectChoiceIndex: 0,
	},
	{
		ID:                 "seed-2",
		Kind:               quiz.MultipleChoice,
		Prompt:             "Hai Bà Trưng khởi nghĩa chống quân xâm lược nào?",
		Choices:            []string{"Nhà Hán", "Nhà Đường", "Nhà Tống", "Nhà Minh"},
		CorrectChoiceIndex: 0,
	},
	{
		ID:                 "seed-3",
		Kind:               quiz.MultipleChoice,
		Prompt:             "Chiến thắng Bạch Đằng năm 938 gắn liền với vị tướng nào?",
		Choices:            []string{"Trần Hưng Đạo", "Ngô Quyền", "Lê Lợi", "Lý Thường Kiệt"},
		CorrectChoiceIndex: 1,
	},
	{
		ID:                 "seed-4",
		Kind:               quiz.MultipleChoice,
		Prompt:             "Vua Lý Thái Tổ dời đô về Thăng Long vào năm nào?",
		Choices:            []string{"939", "1010", "1075", "1225"},
		CorrectChoiceIndex: 1,
	},
	{
		ID:                 "seed-5",
		Kind:               quiz.MultipleChoice,
		Prompt:             "Ai ba lần lãnh đạo quân dân Đại Việt đánh thắng quân Nguyên Mông?",
		Choices:            []string{"Trần Hưng Đạo", "Lê Lợi", "Quang Trung", "Ngô Quyền"},
		CorrectChoiceIndex: 0,
	},
	{
		ID:          "seed-6",
		Kind:        quiz.FillInBlank,
		Prompt:      "Khởi nghĩa Lam Sơn do ____ lãnh đạo.",
		CorrectText: "Lê Lợi",
	},
	{
		ID:          "seed-7",
		Kind:        quiz.FillInBlank,
		Prompt:      "Kinh đô của nhà Nguyễn đặt tại ____.",
		CorrectText: "Huế",
	},
	{
		ID:          "seed-8",
		Kind:        quiz.ShortAnswer,
		Prompt:      "Vua Quang Trung tên thật là gì?",
		CorrectText: "Nguyễn Huệ",
	},
	{
		ID:          "seed-9",
		Kind:        quiz.ShortAnswer,
		Prompt:      "Chiến dịch nào kết thúc kháng chiến chống Pháp năm 1954?",
		CorrectText: "Điện Biên Phủ",
	},
	{
		ID:      "seed-10",
		Kind:    quiz.DragDrop,
		Prompt:  "Sắp xếp các triều đại theo thứ tự thời gian",
		Choices: []string{"Nhà Ngô", "Nhà Lý", "Nhà Trần", "Nhà Lê"},
	},
	{
		ID:                 "seed-11",
		Kind:               quiz.MultipleChoice,
		Prompt:             "Văn Miếu Quốc Tử Giám được xây dựng dưới triều đại nào?",
		Choices:            []string{"Nhà Lý", "Nhà Trần", "Nhà Lê", "Nhà Nguyễn"},
		CorrectChoiceIndex: 0,
	},
	{
		ID:                 "seed-12",
		Kind:               quiz.MultipleChoice,
		Prompt:             "Bài thơ 'Nam quốc sơn hà' gắn với tên tuổi ai?",
		Choices:            []string{"Nguyễn Trãi", "Lý Thường Kiệt", "Trần Quốc Tuấn", "Nguyễn Du"},
		CorrectChoiceIndex: 1,
	},
}
