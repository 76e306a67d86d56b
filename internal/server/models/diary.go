package models

// DiaryBook is a named collection of diary entries. Ownership is held in the
// user_diary_book association.
type DiaryBook struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CreationTime int64  `json:"creationTime"`
}

// DiaryEntry is one diary page together with its placement in a book.
type DiaryEntry struct {
	ID     int64  `json:"id"`
	BookID int64  `json:"bookId"`
	Title  string `json:"title"`
	// Date is the calendar day the entry is filed under, as YYYYMMDD.
	Date         int64  `json:"date"`
	Content      string `json:"content"`
	CreationTime int64  `json:"creationTime"`
}
