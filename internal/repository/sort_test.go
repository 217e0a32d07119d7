package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUserSortOrder(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "joinedAt", Value: -1}}, userSortOrder(UserFilterNew))
	assert.Equal(t, bson.D{{Key: "joinedAt", Value: 1}}, userSortOrder(UserFilterOld))
	assert.Equal(t, bson.D{{Key: "reputation", Value: -1}}, userSortOrder(UserFilterTopContributors))
	assert.Equal(t, bson.D{{Key: "joinedAt", Value: -1}}, userSortOrder("bogus"))
}

func TestSavedSortOrderUsesComputedCounts(t *testing.T) {
	// Vote and answer sorts key on the pipeline's computed sizes, not
	// the raw array fields.
	assert.Equal(t, bson.D{{Key: fieldVoteCount, Value: -1}}, savedSortOrder(SavedFilterMostVoted))
	assert.Equal(t, bson.D{{Key: fieldAnswerCount, Value: -1}}, savedSortOrder(SavedFilterMostAnswered))
	assert.Equal(t, bson.D{{Key: "views", Value: -1}}, savedSortOrder(SavedFilterMostViewed))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}}, savedSortOrder(SavedFilterOldest))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, savedSortOrder(""))
}

func TestTagSortOrder(t *testing.T) {
	assert.Equal(t, bson.D{{Key: fieldQuestionCount, Value: -1}}, tagSortOrder(TagFilterPopular))
	assert.Equal(t, bson.D{{Key: "name", Value: 1}}, tagSortOrder(TagFilterName))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}}, tagSortOrder(TagFilterOld))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, tagSortOrder(""))
}

func TestAnswerSortOrder(t *testing.T) {
	assert.Equal(t, bson.D{{Key: fieldVoteCount, Value: -1}}, answerSortOrder(AnswerSortHighestUpvotes))
	assert.Equal(t, bson.D{{Key: fieldVoteCount, Value: 1}}, answerSortOrder(AnswerSortLowestUpvotes))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}}, answerSortOrder(AnswerSortOld))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, answerSortOrder(""))
}

func TestQuestionSortOrder(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "views", Value: -1}}, questionSortOrder(QuestionFilterFrequent))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, questionSortOrder(QuestionFilterNewest))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, questionSortOrder(QuestionFilterUnanswered))
}

func TestSizeOfTreatsMissingFieldAsEmpty(t *testing.T) {
	want := bson.M{"$size": bson.M{"$ifNull": bson.A{"$upvotes", bson.A{}}}}
	assert.Equal(t, want, sizeOf("upvotes"))
}
