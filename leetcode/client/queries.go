package client

const graphQLPath = "/graphql"

const accountStatusQuery = `
query globalData {
    userStatus {
        userId
        isSignedIn
        isPremium
        username
    }
}`

const recentAcSubmissionsQuery = `
query recentAcSubmissions($username: String!, $limit: Int!) {
    recentAcSubmissionList(username: $username, limit: $limit) {
        id
        title
        titleSlug
        timestamp
    }
}`

const progressListQuery = `
query userProgressQuestionList($filters: UserProgressQuestionListInput) {
    userProgressQuestionList(filters: $filters) {
        totalNum
        questions {
            title
            titleSlug
            difficulty
            lastSubmittedAt
        }
    }
}`

const submissionListQuery = `
query submissionList($offset: Int!, $limit: Int!, $lastKey: String, $questionSlug: String!) {
    submissionList(offset: $offset, limit: $limit, lastKey: $lastKey, questionSlug: $questionSlug) {
        lastKey
        hasNext
        submissions {
            id
            timestamp
            statusDisplay
        }
    }
}`

const problemMetadataQuery = `
query questionContent($titleSlug: String!) {
    question(titleSlug: $titleSlug) {
        questionId
        title
        titleSlug
        difficulty
        content
        topicTags {
            name
            id
            slug
        }
    }
}`
