package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account created on first login. AuthID is the external
// identity provider's subject and is the key most lookups use.
type User struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AuthID     string               `bson:"authId" json:"authId"`
	Name       string               `bson:"name" json:"name"`
	Username   string               `bson:"username" json:"username"`
	Picture    string               `bson:"picture" json:"picture"`
	Reputation int                  `bson:"reputation" json:"reputation"`
	Saved      []primitive.ObjectID `bson:"saved" json:"saved"`
	JoinedAt   time.Time            `bson:"joinedAt" json:"joinedAt"`
}

type Question struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title     string               `bson:"title" json:"title"`
	Content   string               `bson:"content" json:"content"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	Tags      []primitive.ObjectID `bson:"tags" json:"tags"`
	Views     int64                `bson:"views" json:"views"`
	Upvotes   []primitive.ObjectID `bson:"upvotes" json:"upvotes"`
	Downvotes []primitive.ObjectID `bson:"downvotes" json:"downvotes"`
	Answers   []primitive.ObjectID `bson:"answers" json:"answers"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

type Answer struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Content   string               `bson:"content" json:"content"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	Question  primitive.ObjectID   `bson:"question" json:"question"`
	Upvotes   []primitive.ObjectID `bson:"upvotes" json:"upvotes"`
	Downvotes []primitive.ObjectID `bson:"downvotes" json:"downvotes"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

// Tag is created implicitly the first time a question uses it.
type Tag struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Questions   []primitive.ObjectID `bson:"questions" json:"questions"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}

// Interaction is an append-only audit record of a user action.
type Interaction struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Action    string               `bson:"action" json:"action"`
	Question  primitive.ObjectID   `bson:"question,omitempty" json:"question,omitempty"`
	Answer    primitive.ObjectID   `bson:"answer,omitempty" json:"answer,omitempty"`
	Tags      []primitive.ObjectID `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

// Interaction actions recorded by the repositories.
const (
	ActionAskQuestion  = "ask_question"
	ActionAnswer       = "answer"
	ActionViewQuestion = "view"
)

// TagRef is the slim tag shape embedded in enriched listings.
type TagRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// AuthorRef is the slim author shape embedded in enriched listings.
type AuthorRef struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	AuthID  string             `bson:"authId" json:"authId"`
	Name    string             `bson:"name" json:"name"`
	Picture string             `bson:"picture" json:"picture"`
}

// QuestionView is a question with its tag and author references
// resolved for display.
type QuestionView struct {
	ID          primitive.ObjectID   `json:"id"`
	Title       string               `json:"title"`
	Content     string               `json:"content,omitempty"`
	Tags        []TagRef             `json:"tags"`
	Author      AuthorRef            `json:"author"`
	Views       int64                `json:"views"`
	Upvotes     []primitive.ObjectID `json:"upvotes"`
	Downvotes   []primitive.ObjectID `json:"downvotes"`
	AnswerCount int                  `json:"answerCount"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// QuestionRef is the slim parent-question shape on answer listings.
type QuestionRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Title string             `bson:"title" json:"title"`
}

// AnswerView is an answer with its author and parent question resolved.
type AnswerView struct {
	ID        primitive.ObjectID   `json:"id"`
	Content   string               `json:"content"`
	Author    AuthorRef            `json:"author"`
	Question  QuestionRef          `json:"question"`
	Upvotes   []primitive.ObjectID `json:"upvotes"`
	Downvotes []primitive.ObjectID `json:"downvotes"`
	CreatedAt time.Time            `json:"createdAt"`
}
