package model

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// ReviewInput is a single product review. A zero Rating means none was chosen.
type ReviewInput struct {
	ProductID int64
	OrderID   *int64
	Rating    int
	Comment   string
}

// OrderRatingItem is one product of an order rating form. Unrated items are skipped.
type OrderRatingItem struct {
	ProductID int64
	Rating    int
	Review    string
}
