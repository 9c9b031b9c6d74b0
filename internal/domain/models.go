package domain

import (
	"time"
)

type (
	RoleID         string
	UserID         string
	NominationID   string
	NomineeID      string
	VoteID         string
	JuryID         string
	EvaluationID   string
	SubscriptionID string
	ExamID         string
)

type Role struct {
	ID          RoleID `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	Name        string `gorm:"column:name;size:50;not null;uniqueIndex:idx_roles_name" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Users       []User `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"users,omitempty"`
}

type User struct {
	ID            UserID         `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	Name          string         `gorm:"column:name;size:30" json:"name"`
	Surname       string         `gorm:"column:surname;size:30" json:"surname"`
	Email         string         `gorm:"column:email;size:254;not null;uniqueIndex:idx_users_email" json:"email"`
	RoleID        RoleID         `gorm:"column:role_id;type:char(26);not null;index" json:"role_id"`
	Role          *Role          `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Nominees      []Nominee      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"nominees,omitempty"`
	Votes         []Vote         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"votes,omitempty"`
	Subscriptions []Subscription `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"subscriptions,omitempty"`
	Jury          *Jury          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"jury,omitempty"`
}

type Nomination struct {
	ID            NominationID   `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	Name          string         `gorm:"column:name;size:200;not null" json:"name"`
	Description   string         `gorm:"column:description;type:text" json:"description"`
	CreatedDate   time.Time      `gorm:"column:created_date;not null;index" json:"created_date"`
	EndDate       *time.Time     `gorm:"column:end_date" json:"end_date"`
	Nominees      []Nominee      `gorm:"foreignKey:NominationID;constraint:OnDelete:CASCADE" json:"nominees,omitempty"`
	Subscriptions []Subscription `gorm:"foreignKey:NominationID;constraint:OnDelete:CASCADE" json:"subscriptions,omitempty"`
}

type Nominee struct {
	ID           NomineeID        `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	NominationID NominationID     `gorm:"column:nomination_id;type:char(26);not null;uniqueIndex:idx_nominees_nomination_user,priority:1" json:"nomination_id"`
	UserID       UserID           `gorm:"column:user_id;type:char(26);not null;uniqueIndex:idx_nominees_nomination_user,priority:2;index" json:"user_id"`
	ProjectName  string           `gorm:"column:project_name;size:200;not null" json:"project_name"`
	Description  string           `gorm:"column:description;type:text" json:"description"`
	Contact      string           `gorm:"column:contact;size:254" json:"contact"`
	CreatedAt    time.Time        `gorm:"column:created_at;not null;index" json:"created_at"`
	Attachment   string           `gorm:"column:attachment;type:text" json:"attachment"`
	Nomination   *Nomination      `gorm:"foreignKey:NominationID" json:"nomination,omitempty"`
	User         *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Votes        []Vote           `gorm:"foreignKey:NomineeID;constraint:OnDelete:CASCADE" json:"votes,omitempty"`
	Evaluations  []JuryEvaluation `gorm:"foreignKey:NomineeID;constraint:OnDelete:CASCADE" json:"evaluations,omitempty"`
}

// Choice é gravado com o código de uma letra usado desde a primeira versão do schema.
type Choice string

const (
	ChoiceYes     Choice = "Y"
	ChoiceNo      Choice = "N"
	ChoiceAbstain Choice = "A"
)

type Vote struct {
	ID        VoteID    `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	UserID    UserID    `gorm:"column:user_id;type:char(26);not null;uniqueIndex:idx_votes_user_nominee,priority:1" json:"user_id"`
	NomineeID NomineeID `gorm:"column:nominee_id;type:char(26);not null;uniqueIndex:idx_votes_user_nominee,priority:2;index:idx_votes_nominee_choice,priority:1" json:"nominee_id"`
	Choice    Choice    `gorm:"column:choice;size:1;not null;default:'Y';index:idx_votes_nominee_choice,priority:2" json:"choice"`
	VotedAt   time.Time `gorm:"column:voted_at;not null;index" json:"voted_at"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Nominee   *Nominee  `gorm:"foreignKey:NomineeID" json:"nominee,omitempty"`
}

type Jury struct {
	ID          JuryID           `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	UserID      UserID           `gorm:"column:user_id;type:char(26);not null;uniqueIndex:idx_juries_user" json:"user_id"`
	Bio         string           `gorm:"column:bio;type:text" json:"bio"`
	Photo       string           `gorm:"column:photo;type:text" json:"photo"`
	User        *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Evaluations []JuryEvaluation `gorm:"foreignKey:JuryID;constraint:OnDelete:CASCADE" json:"evaluations,omitempty"`
}

type JuryEvaluation struct {
	ID          EvaluationID `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	JuryID      JuryID       `gorm:"column:jury_id;type:char(26);not null;uniqueIndex:idx_evaluations_jury_nominee,priority:1" json:"jury_id"`
	NomineeID   NomineeID    `gorm:"column:nominee_id;type:char(26);not null;uniqueIndex:idx_evaluations_jury_nominee,priority:2;index" json:"nominee_id"`
	Score       int          `gorm:"column:score;type:smallint;not null;default:0" json:"score"`
	Comment     string       `gorm:"column:comment;type:text" json:"comment"`
	EvaluatedAt time.Time    `gorm:"column:evaluated_at;not null;index" json:"evaluated_at"`
	Jury        *Jury        `gorm:"foreignKey:JuryID" json:"jury,omitempty"`
	Nominee     *Nominee     `gorm:"foreignKey:NomineeID" json:"nominee,omitempty"`
}

type Subscription struct {
	ID           SubscriptionID `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	UserID       UserID         `gorm:"column:user_id;type:char(26);not null;uniqueIndex:idx_subscriptions_user_nomination,priority:1" json:"user_id"`
	NominationID NominationID   `gorm:"column:nomination_id;type:char(26);not null;uniqueIndex:idx_subscriptions_user_nomination,priority:2;index" json:"nomination_id"`
	SubscribedAt time.Time      `gorm:"column:subscribed_at;not null" json:"subscribed_at"`
	Notes        string         `gorm:"column:notes;type:text" json:"notes"`
	User         *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Nomination   *Nomination    `gorm:"foreignKey:NominationID" json:"nomination,omitempty"`
}

// Exam é auxiliar ao domínio de votação e só compartilha a tabela de usuários.
type Exam struct {
	ID        ExamID    `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:200;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	ExamDate  time.Time `gorm:"column:exam_date;type:date;not null;index" json:"exam_date"`
	TaskImage string    `gorm:"column:task_image;type:text" json:"task_image"`
	IsPublic  bool      `gorm:"column:is_public;not null;default:false" json:"is_public"`
	Users     []User    `gorm:"many2many:exam_users;joinForeignKey:ExamID;joinReferences:UserID" json:"users,omitempty"`
}

// Tally particiona os votos de um nominado pela escolha.
type Tally struct {
	NomineeID NomineeID `json:"nominee_id"`
	Yes       int64     `json:"yes"`
	No        int64     `json:"no"`
	Abstain   int64     `json:"abstain"`
}

// ScoreSummary resume as notas do júri para um nominado.
type ScoreSummary struct {
	NomineeID   NomineeID `json:"nominee_id"`
	Evaluations int64     `json:"evaluations"`
	Average     float64   `json:"average"`
	Max         int       `json:"max"`
}

func (Role) TableName() string { return "roles" }

func (User) TableName() string { return "users" }

func (Nomination) TableName() string { return "nominations" }

func (Nominee) TableName() string { return "nominees" }

func (Vote) TableName() string { return "votes" }

func (Jury) TableName() string { return "juries" }

func (JuryEvaluation) TableName() string { return "jury_evaluations" }

func (Subscription) TableName() string { return "subscriptions" }

func (Exam) TableName() string { return "exams" }
