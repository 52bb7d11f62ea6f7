package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sharehub/internal/models"
)

const commentSelect = `
    SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created_at
    FROM comments c
    JOIN users u ON u.id = c.author_id`

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (text, item_id, author_id, created_at) VALUES (?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, comment.Text, comment.ItemID, comment.AuthorID, now)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	comment.CreatedAt = now
	return nil
}

func (db *DB) GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error) {
	query := commentSelect + ` WHERE c.item_id = ? ORDER BY c.created_at`
	return db.queryComments(ctx, query, itemID)
}

func (db *DB) GetCommentsByItemIDs(ctx context.Context, itemIDs []int64) ([]*models.Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(itemIDs)-1) + "?"
	query := commentSelect + ` WHERE c.item_id IN (` + placeholders + `) ORDER BY c.created_at`
	args := make([]any, len(itemIDs))
	for i, id := range itemIDs {
		args[i] = id
	}
	return db.queryComments(ctx, query, args...)
}

func (db *DB) queryComments(ctx context.Context, query string, args ...any) ([]*models.Comment, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
