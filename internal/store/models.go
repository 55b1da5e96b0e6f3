package store

import "time"

// Collection names in the CampusAid project.
const (
	CollCourses    = "courses"
	CollLecturers  = "lecturers"
	CollUsers      = "users"
	CollFileHashes = "fileHashes"
	CollDuplicates = "duplicates"

	SubReviews          = "reviews"
	SubCoinTransactions = "coinTransactions"
)

// Categories are the fixed paper subcollections under every course.
var Categories = []string{"mid-semester", "end-semester", "quizzes"}

// PlaceholderID keeps an otherwise-empty category addressable in the app.
// Documents with this ID are sentinels and must never be counted or
// scanned as real papers.
const PlaceholderID = "placeholder"

// CourseDoc is a course catalog entry. Papers live in the category
// subcollections underneath it.
type CourseDoc struct {
	CourseName          string   `firestore:"course_name"`
	CourseNameLowercase string   `firestore:"course_name_lowercase,omitempty"`
	NormalizedCode      string   `firestore:"normalized_code,omitempty"`
	School              string   `firestore:"school,omitempty"`
	SearchableFields    []string `firestore:"searchable_fields,omitempty"`
	TotalPapers         int64    `firestore:"total_papers,omitempty"`
}

// DuplicateDoc is one detected duplicate file, written by findduplicates
// and consumed by removeduplicates. It carries the full back-reference to
// the owning paper so removal never has to re-query the catalog.
type DuplicateDoc struct {
	Type             string `firestore:"type"`
	DuplicateFileURL string `firestore:"duplicateFileUrl"`
	MatchedFileURL   string `firestore:"matchedFileUrl"`
	FileHash         string `firestore:"fileHash,omitempty"`
	PHash            string `firestore:"pHash,omitempty"`
	SimilarToPHash   string `firestore:"similarToPHash,omitempty"`
	CourseID         string `firestore:"courseId"`
	Subcollection    string `firestore:"subcollection"`
	PaperDocID       string `firestore:"paperDocId"`
	MatchedPaperID   string `firestore:"matchedPaperDocId,omitempty"`
}

// Incomplete reports whether the entry is missing a field required to
// locate and update the owning paper. Such entries are skipped, not acted
// on.
func (d DuplicateDoc) Incomplete() bool {
	return d.DuplicateFileURL == "" || d.CourseID == "" || d.Subcollection == "" || d.PaperDocID == ""
}

// LecturerDoc is a lecturer profile with denormalized search and rating
// fields maintained by the backfill scripts.
type LecturerDoc struct {
	Name             string   `firestore:"name"`
	LowercaseName    string   `firestore:"lowercaseName,omitempty"`
	SearchableFields []string `firestore:"searchableFields,omitempty"`
	Rating           float64  `firestore:"rating,omitempty"`
	TotalRatings     int64    `firestore:"totalRatings,omitempty"`
}

// UserDoc holds the fields the coin scripts touch; everything else on the
// user document is left alone.
type UserDoc struct {
	Username string `firestore:"username"`
	Coins    int64  `firestore:"coins"`
}

// CoinTransaction is one ledger entry in a user's coinTransactions
// subcollection. The JSON tags match the audit log format consumed by
// refundcoins.
type CoinTransaction struct {
	TransactionID string    `firestore:"transactionId,omitempty" json:"transactionId"`
	Type          string    `firestore:"type" json:"type"`
	Amount        int64     `firestore:"amount" json:"amount"`
	Status        string    `firestore:"status" json:"status"`
	Timestamp     time.Time `firestore:"timestamp" json:"timestamp"`
	CompletedAt   time.Time `firestore:"completedAt,omitempty" json:"completedAt,omitempty"`
	UserID        string    `firestore:"-" json:"userId,omitempty"`
}

// FileURLs pulls the fileUrls list out of a raw paper document. Firestore
// decodes arrays as []interface{}; non-string elements are skipped. Nil
// means the field is absent.
func FileURLs(data map[string]interface{}) []string {
	raw, ok := data["fileUrls"].([]interface{})
	if !ok {
		return nil
	}
	urls := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			urls = append(urls, s)
		}
	}
	return urls
}
