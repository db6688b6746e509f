package review

// Running-average maintenance for product ratings. Callers must hold the
// product row lock while applying these, otherwise two concurrent writes can
// lose an update.

// RatingAfterCreate folds one new rating into the running average.
func RatingAfterCreate(oldAvg float64, count, rating int) float64 {
	return (oldAvg*float64(count) + float64(rating)) / float64(count+1)
}

// RatingAfterUpdate swaps one rating for another; the count is unchanged.
func RatingAfterUpdate(oldAvg float64, count, oldRating, newRating int) float64 {
	return (oldAvg*float64(count) + float64(newRating-oldRating)) / float64(count)
}

// RatingAfterDelete removes one rating. Deleting the last review resets the
// average to 0 explicitly; the division is never evaluated with count-1 == 0.
func RatingAfterDelete(oldAvg float64, count, deletedRating int) float64 {
	if count-1 <= 0 {
		return 0
	}
	return (oldAvg*float64(count) - float64(deletedRating)) / float64(count-1)
}
