package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openlms/enrollment-summary-api/internal/models"
)

// CourseContentRepository reads the hierarchical course content tree. Only
// the chapter and subsection levels are materialized; deeper block types are
// irrelevant to grading structure.
type CourseContentRepository struct {
	db *sqlx.DB
}

// NewCourseContentRepository constructs the repository.
func NewCourseContentRepository(db *sqlx.DB) *CourseContentRepository {
	return &CourseContentRepository{db: db}
}

// FindChapters returns the chapters of a course with their subsections in
// tree order. An unknown course yields an empty slice, not an error.
func (r *CourseContentRepository) FindChapters(ctx context.Context, courseID string) ([]models.CourseChapter, error) {
	const chapterQuery = `SELECT id, course_id, parent_id, block_type, display_name, graded, ordinal
        FROM course_blocks WHERE course_id = $1 AND block_type = $2 ORDER BY ordinal`

	var chapterBlocks []models.CourseBlock
	if err := r.db.SelectContext(ctx, &chapterBlocks, chapterQuery, courseID, models.BlockTypeChapter); err != nil {
		return nil, fmt.Errorf("fetch chapters: %w", err)
	}
	if len(chapterBlocks) == 0 {
		return nil, nil
	}

	const subsectionQuery = `SELECT id, course_id, parent_id, block_type, display_name, graded, ordinal
        FROM course_blocks WHERE course_id = $1 AND block_type = $2 ORDER BY parent_id, ordinal`

	var subsectionBlocks []models.CourseBlock
	if err := r.db.SelectContext(ctx, &subsectionBlocks, subsectionQuery, courseID, models.BlockTypeSequential); err != nil {
		return nil, fmt.Errorf("fetch subsections: %w", err)
	}

	byParent := make(map[int64][]models.CourseBlock, len(chapterBlocks))
	for _, block := range subsectionBlocks {
		if block.ParentID == nil {
			continue
		}
		byParent[*block.ParentID] = append(byParent[*block.ParentID], block)
	}

	chapters := make([]models.CourseChapter, 0, len(chapterBlocks))
	for _, block := range chapterBlocks {
		chapters = append(chapters, models.CourseChapter{
			CourseBlock: block,
			Subsections: byParent[block.ID],
		})
	}
	return chapters, nil
}
