package repository

import "go.mongodb.org/mongo-driver/bson"

// Filter values accepted by the list operations. Unknown values fall
// back to the listing's recency default.
const (
	UserFilterNew             = "new_users"
	UserFilterOld             = "old_users"
	UserFilterTopContributors = "top_contributors"

	SavedFilterMostRecent   = "most_recent"
	SavedFilterOldest       = "oldest"
	SavedFilterMostVoted    = "most_voted"
	SavedFilterMostViewed   = "most_viewed"
	SavedFilterMostAnswered = "most_answered"

	TagFilterPopular = "popular"
	TagFilterRecent  = "recent"
	TagFilterName    = "name"
	TagFilterOld     = "old"

	AnswerSortHighestUpvotes = "highestUpvotes"
	AnswerSortLowestUpvotes  = "lowestUpvotes"
	AnswerSortRecent         = "recent"
	AnswerSortOld            = "old"

	QuestionFilterNewest     = "newest"
	QuestionFilterFrequent   = "frequent"
	QuestionFilterUnanswered = "unanswered"
)

// Computed fields added by the listing pipelines. Sorting always uses
// these sizes, never the raw array fields.
const (
	fieldVoteCount     = "voteCount"
	fieldAnswerCount   = "answerCount"
	fieldQuestionCount = "questionCount"
)

func userSortOrder(filter string) bson.D {
	switch filter {
	case UserFilterNew:
		return bson.D{{Key: "joinedAt", Value: -1}}
	case UserFilterOld:
		return bson.D{{Key: "joinedAt", Value: 1}}
	case UserFilterTopContributors:
		return bson.D{{Key: "reputation", Value: -1}}
	default:
		return bson.D{{Key: "joinedAt", Value: -1}}
	}
}

func savedSortOrder(filter string) bson.D {
	switch filter {
	case SavedFilterMostRecent:
		return bson.D{{Key: "createdAt", Value: -1}}
	case SavedFilterOldest:
		return bson.D{{Key: "createdAt", Value: 1}}
	case SavedFilterMostVoted:
		return bson.D{{Key: fieldVoteCount, Value: -1}}
	case SavedFilterMostViewed:
		return bson.D{{Key: "views", Value: -1}}
	case SavedFilterMostAnswered:
		return bson.D{{Key: fieldAnswerCount, Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func tagSortOrder(filter string) bson.D {
	switch filter {
	case TagFilterPopular:
		return bson.D{{Key: fieldQuestionCount, Value: -1}}
	case TagFilterRecent:
		return bson.D{{Key: "createdAt", Value: -1}}
	case TagFilterName:
		return bson.D{{Key: "name", Value: 1}}
	case TagFilterOld:
		return bson.D{{Key: "createdAt", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func answerSortOrder(sortBy string) bson.D {
	switch sortBy {
	case AnswerSortHighestUpvotes:
		return bson.D{{Key: fieldVoteCount, Value: -1}}
	case AnswerSortLowestUpvotes:
		return bson.D{{Key: fieldVoteCount, Value: 1}}
	case AnswerSortRecent:
		return bson.D{{Key: "createdAt", Value: -1}}
	case AnswerSortOld:
		return bson.D{{Key: "createdAt", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func questionSortOrder(filter string) bson.D {
	switch filter {
	case QuestionFilterFrequent:
		return bson.D{{Key: "views", Value: -1}}
	default:
		// newest and unanswered both list by recency; unanswered adds
		// a match on an empty answers set.
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// sizeOf counts an array field, treating a missing field as empty.
func sizeOf(field string) bson.M {
	return bson.M{"$size": bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}}}
}
