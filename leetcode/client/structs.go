package client

import "time"

// Decoded results. Timestamps are parsed here; records with malformed
// timestamps never leave this package.

type AccountStatus struct {
	UserID     *int64 `json:"userId"`
	IsSignedIn bool   `json:"isSignedIn"`
	IsPremium  bool   `json:"isPremium"`
	Username   string `json:"username"`
}

type AcceptedSubmission struct {
	RemoteID    string
	Title       string
	TitleSlug   string
	SubmittedAt time.Time
}

type SolvedProblem struct {
	Title      string `json:"title"`
	TitleSlug  string `json:"titleSlug"`
	Difficulty string `json:"difficulty"`
}

type ProblemSubmission struct {
	RemoteID    string
	SubmittedAt time.Time
	Status      string
}

type TopicTag struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

type ProblemMetadata struct {
	QuestionID string     `json:"questionId"`
	Title      string     `json:"title"`
	TitleSlug  string     `json:"titleSlug"`
	Difficulty string     `json:"difficulty"`
	Content    string     `json:"content"`
	TopicTags  []TopicTag `json:"topicTags"`
}

// Wire shapes of the GraphQL responses

type graphQLError struct {
	Message string `json:"message"`
}

type accountStatusData struct {
	UserStatus AccountStatus `json:"userStatus"`
}

type rawSubmission struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	TitleSlug     string `json:"titleSlug"`
	Timestamp     string `json:"timestamp"`
	StatusDisplay string `json:"statusDisplay"`
}

type recentSubmissionsData struct {
	RecentAcSubmissionList []rawSubmission `json:"recentAcSubmissionList"`
}

type progressListData struct {
	UserProgressQuestionList struct {
		TotalNum  int             `json:"totalNum"`
		Questions []SolvedProblem `json:"questions"`
	} `json:"userProgressQuestionList"`
}

type submissionListData struct {
	SubmissionList struct {
		LastKey     string          `json:"lastKey"`
		HasNext     bool            `json:"hasNext"`
		Submissions []rawSubmission `json:"submissions"`
	} `json:"submissionList"`
}

type problemMetadataData struct {
	Question *ProblemMetadata `json:"question"`
}
