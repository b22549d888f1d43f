package stubserver

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/edusnap-dev/edusnap/internal/models"
)

type reportKey struct {
	group string
	date  string
}

// summarize folds attendance records into per-group/per-day present counts.
// keyFn picks the grouping column (course for admins, subject for faculty).
func summarize(records []models.AttendanceRecord, keyFn func(models.AttendanceRecord) string) []gin.H {
	counts := make(map[reportKey]int)
	for _, r := range records {
		if r.Status != "present" {
			continue
		}
		counts[reportKey{group: keyFn(r), date: r.Date.Format("2006-01-02")}]++
	}

	keys := make([]reportKey, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].date != keys[j].date {
			return keys[i].date > keys[j].date
		}
		return keys[i].group < keys[j].group
	})

	rows := make([]gin.H, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, gin.H{
			"group":      k.group,
			"attendance": fmt.Sprintf("%d present", counts[k]),
			"date":       k.date,
		})
	}
	return rows
}

func (s *Server) adminReports(c *gin.Context) {
	var records []models.AttendanceRecord
	if err := s.db.Find(&records).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to load attendance records")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	rows := summarize(records, func(r models.AttendanceRecord) string { return r.Course })
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"course":     row["group"],
			"attendance": row["attendance"],
			"date":       row["date"],
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) facultyReports(c *gin.Context) {
	user, _ := CurrentUser(c)

	var records []models.AttendanceRecord
	if err := s.db.Where("marked_by_id = ?", user.ID).Find(&records).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to load attendance records")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	rows := summarize(records, func(r models.AttendanceRecord) string { return r.Subject })
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"subject":    row["group"],
			"attendance": row["attendance"],
			"date":       row["date"],
		})
	}
	c.JSON(http.StatusOK, out)
}
