package tally

import (
	"testing"
	"time"

	"github.com/Offxc/Void-BOTM-Bot/models"
)

func sub(id string, status models.SubmissionStatus, submittedAt time.Time) *models.Submission {
	return &models.Submission{
		ID:          id,
		ContestID:   "c1",
		AuthorID:    "author-" + id,
		Status:      status,
		SubmittedAt: submittedAt,
	}
}

func vote(submissionID, voterID string) *models.VoteEntry {
	return &models.VoteEntry{ContestID: "c1", SubmissionID: submissionID, VoterID: voterID}
}

func TestRankOrdering(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		desc        string
		submissions []*models.Submission
		votes       []*models.VoteEntry
		expected    []string
	}{
		{
			desc: "more votes ranks higher",
			submissions: []*models.Submission{
				sub("a", models.StatusApproved, base),
				sub("b", models.StatusApproved, base.Add(time.Minute)),
			},
			votes: []*models.VoteEntry{
				vote("b", "v1"), vote("b", "v2"), vote("a", "v3"),
			},
			expected: []string{"b", "a"},
		},
		{
			desc: "tie broken by earlier submission",
			submissions: []*models.Submission{
				sub("b", models.StatusApproved, base),
				sub("a", models.StatusApproved, base.Add(time.Hour)),
			},
			votes: []*models.VoteEntry{
				vote("a", "v1"), vote("b", "v2"),
			},
			expected: []string{"b", "a"},
		},
		{
			desc: "full tie broken by id lexicographically",
			submissions: []*models.Submission{
				sub("b", models.StatusApproved, base),
				sub("a", models.StatusApproved, base),
			},
			votes:    nil,
			expected: []string{"a", "b"},
		},
		{
			desc: "non approved submissions are excluded",
			submissions: []*models.Submission{
				sub("a", models.StatusApproved, base),
				sub("b", models.StatusPending, base),
				sub("c", models.StatusRejected, base),
			},
			votes: []*models.VoteEntry{
				vote("b", "v1"), vote("b", "v2"), vote("c", "v3"), vote("a", "v4"),
			},
			expected: []string{"a"},
		},
		{
			desc: "votes for absent submissions are ignored",
			submissions: []*models.Submission{
				sub("a", models.StatusApproved, base),
			},
			votes: []*models.VoteEntry{
				vote("ghost", "v1"), vote("ghost", "v2"), vote("a", "v3"),
			},
			expected: []string{"a"},
		},
		{
			desc: "result is truncated to top three",
			submissions: []*models.Submission{
				sub("a", models.StatusApproved, base),
				sub("b", models.StatusApproved, base.Add(time.Minute)),
				sub("c", models.StatusApproved, base.Add(2*time.Minute)),
				sub("d", models.StatusApproved, base.Add(3*time.Minute)),
			},
			votes: []*models.VoteEntry{
				vote("d", "v1"), vote("d", "v2"), vote("d", "v3"),
				vote("c", "v4"), vote("c", "v5"),
				vote("b", "v6"),
			},
			expected: []string{"d", "c", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := Rank(tt.submissions, tt.votes)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d ranked, got %d", len(tt.expected), len(got))
			}
			for i, id := range tt.expected {
				if got[i].Submission.ID != id {
					t.Errorf("place %d: expected %s, got %s", i+1, id, got[i].Submission.ID)
				}
				if got[i].Placement != i+1 {
					t.Errorf("place %d: wrong placement %d", i+1, got[i].Placement)
				}
			}
		})
	}
}

func TestRankIsDeterministic(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	submissions := []*models.Submission{
		sub("c", models.StatusApproved, base),
		sub("a", models.StatusApproved, base),
		sub("b", models.StatusApproved, base),
	}
	votes := []*models.VoteEntry{vote("a", "v1"), vote("b", "v2"), vote("c", "v3")}

	first := Rank(submissions, votes)
	// 입력 순서를 섞어도 결과가 같아야 함
	shuffled := []*models.Submission{submissions[2], submissions[0], submissions[1]}
	second := Rank(shuffled, []*models.VoteEntry{votes[2], votes[1], votes[0]})

	for i := range first {
		if first[i].Submission.ID != second[i].Submission.ID {
			t.Errorf("rank order changed with input order: %s vs %s", first[i].Submission.ID, second[i].Submission.ID)
		}
	}
}

func TestPlacementLabel(t *testing.T) {
	tests := []struct {
		placement int
		expected  string
	}{
		{1, "1st"},
		{2, "2nd"},
		{3, "3rd"},
		{4, "4th"},
		{11, "11th"},
	}
	for _, tt := range tests {
		if got := PlacementLabel(tt.placement); got != tt.expected {
			t.Errorf("PlacementLabel(%d) = %s, expected %s", tt.placement, got, tt.expected)
		}
	}
}
