package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VoteDirection selects which membership set a toggle targets.
type VoteDirection int

const (
	VoteUp VoteDirection = iota
	VoteDown
)

func (d VoteDirection) String() string {
	if d == VoteUp {
		return "up"
	}
	return "down"
}

// voteChange is the update document for one toggle transition plus the
// reputation deltas it implies for the voter and the content author.
type voteChange struct {
	update      bson.M
	voterDelta  int
	authorDelta int
}

// buildVoteChange maps the three-way toggle onto a single update:
// already in the target set removes (un-vote), membership in the
// opposite set flips, otherwise the vote is added. Reputation is a
// pure function of the resulting state — an upvote is worth
// (+voterUnit, +authorUnit), a downvote the negation — and each
// transition applies the difference, so voting twice nets to zero and
// a flip never double-applies.
func buildVoteChange(dir VoteDirection, voter primitive.ObjectID, hasUpvoted, hasDownvoted bool, voterUnit, authorUnit int) voteChange {
	if dir == VoteUp {
		switch {
		case hasUpvoted:
			return voteChange{
				update:      bson.M{"$pull": bson.M{"upvotes": voter}},
				voterDelta:  -voterUnit,
				authorDelta: -authorUnit,
			}
		case hasDownvoted:
			return voteChange{
				update:      bson.M{"$pull": bson.M{"downvotes": voter}, "$push": bson.M{"upvotes": voter}},
				voterDelta:  2 * voterUnit,
				authorDelta: 2 * authorUnit,
			}
		default:
			return voteChange{
				update:      bson.M{"$addToSet": bson.M{"upvotes": voter}},
				voterDelta:  voterUnit,
				authorDelta: authorUnit,
			}
		}
	}
	switch {
	case hasDownvoted:
		return voteChange{
			update:      bson.M{"$pull": bson.M{"downvotes": voter}},
			voterDelta:  voterUnit,
			authorDelta: authorUnit,
		}
	case hasUpvoted:
		return voteChange{
			update:      bson.M{"$pull": bson.M{"upvotes": voter}, "$push": bson.M{"downvotes": voter}},
			voterDelta:  -2 * voterUnit,
			authorDelta: -2 * authorUnit,
		}
	default:
		return voteChange{
			update:      bson.M{"$addToSet": bson.M{"downvotes": voter}},
			voterDelta:  -voterUnit,
			authorDelta: -authorUnit,
		}
	}
}
