package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildVoteChange(t *testing.T) {
	voter := primitive.NewObjectID()
	const voterUnit, authorUnit = 2, 10

	tests := []struct {
		name            string
		dir             VoteDirection
		hasUpvoted      bool
		hasDownvoted    bool
		wantUpdate      bson.M
		wantVoterDelta  int
		wantAuthorDelta int
	}{
		{
			name:            "fresh upvote",
			dir:             VoteUp,
			wantUpdate:      bson.M{"$addToSet": bson.M{"upvotes": voter}},
			wantVoterDelta:  voterUnit,
			wantAuthorDelta: authorUnit,
		},
		{
			name:            "upvote again removes the vote",
			dir:             VoteUp,
			hasUpvoted:      true,
			wantUpdate:      bson.M{"$pull": bson.M{"upvotes": voter}},
			wantVoterDelta:  -voterUnit,
			wantAuthorDelta: -authorUnit,
		},
		{
			name:            "upvote over a downvote flips",
			dir:             VoteUp,
			hasDownvoted:    true,
			wantUpdate:      bson.M{"$pull": bson.M{"downvotes": voter}, "$push": bson.M{"upvotes": voter}},
			wantVoterDelta:  2 * voterUnit,
			wantAuthorDelta: 2 * authorUnit,
		},
		{
			name:            "fresh downvote",
			dir:             VoteDown,
			wantUpdate:      bson.M{"$addToSet": bson.M{"downvotes": voter}},
			wantVoterDelta:  -voterUnit,
			wantAuthorDelta: -authorUnit,
		},
		{
			name:            "downvote again removes the vote",
			dir:             VoteDown,
			hasDownvoted:    true,
			wantUpdate:      bson.M{"$pull": bson.M{"downvotes": voter}},
			wantVoterDelta:  voterUnit,
			wantAuthorDelta: authorUnit,
		},
		{
			name:            "downvote over an upvote flips",
			dir:             VoteDown,
			hasUpvoted:      true,
			wantUpdate:      bson.M{"$pull": bson.M{"upvotes": voter}, "$push": bson.M{"downvotes": voter}},
			wantVoterDelta:  -2 * voterUnit,
			wantAuthorDelta: -2 * authorUnit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildVoteChange(tt.dir, voter, tt.hasUpvoted, tt.hasDownvoted, voterUnit, authorUnit)
			assert.Equal(t, tt.wantUpdate, got.update)
			assert.Equal(t, tt.wantVoterDelta, got.voterDelta)
			assert.Equal(t, tt.wantAuthorDelta, got.authorDelta)
		})
	}
}

// Voting the same way twice must net to zero reputation, and a flip
// followed by a flip back must land where a single vote would have.
func TestBuildVoteChangeReputationNetsOut(t *testing.T) {
	voter := primitive.NewObjectID()
	const voterUnit, authorUnit = 1, 10

	first := buildVoteChange(VoteUp, voter, false, false, voterUnit, authorUnit)
	second := buildVoteChange(VoteUp, voter, true, false, voterUnit, authorUnit)
	assert.Zero(t, first.voterDelta+second.voterDelta)
	assert.Zero(t, first.authorDelta+second.authorDelta)

	up := buildVoteChange(VoteUp, voter, false, false, voterUnit, authorUnit)
	flip := buildVoteChange(VoteDown, voter, true, false, voterUnit, authorUnit)
	flipBack := buildVoteChange(VoteUp, voter, false, true, voterUnit, authorUnit)
	assert.Equal(t, up.voterDelta, up.voterDelta+flip.voterDelta+flipBack.voterDelta)
	assert.Equal(t, up.authorDelta, up.authorDelta+flip.authorDelta+flipBack.authorDelta)
}

func TestVoteDirectionString(t *testing.T) {
	assert.Equal(t, "up", VoteUp.String())
	assert.Equal(t, "down", VoteDown.String())
}
