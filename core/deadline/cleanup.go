package deadline

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// dropOneMemberTopics deletes the topic sign-up of every team that has exactly one member.
func (svc *Service) dropOneMemberTopics(ctx context.Context) (int, error) {
	counts, err := svc.repo.CountTeamMembers(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "counting team members")
	}

	teamIDs := make([]int64, 0, len(counts))
	for teamID, n := range counts {
		if n == 1 {
			teamIDs = append(teamIDs, teamID)
		}
	}
	sort.Slice(teamIDs, func(i, j int) bool { return teamIDs[i] < teamIDs[j] })

	var dropped int
	for _, teamID := range teamIDs {
		signUp, err := svc.repo.GetSignedUpTeam(ctx, teamID)
		if err != nil {
			if errors.Cause(err) == ErrSignUpNotFound {
				continue // the team never signed up for a topic
			}
			return dropped, errors.Wrapf(err, "finding topic sign-up of team %d", teamID)
		}
		if err = svc.repo.DeleteSignedUpTeam(ctx, signUp.ID); err != nil {
			return dropped, errors.Wrapf(err, "deleting topic sign-up %d", signUp.ID)
		}
		dropped++
		svc.logger.Info(fmt.Sprintf("dropped topic %d of one-member team %d", signUp.TopicID, teamID))
	}
	return dropped, nil
}

// dropOutstandingReviews deletes the assignment's review maps that have no response yet.
func (svc *Service) dropOutstandingReviews(ctx context.Context, assignmentID int64) (int, error) {
	maps, err := svc.repo.QueryResponseMaps(ctx, assignmentID)
	if err != nil {
		return 0, errors.Wrapf(err, "querying review maps of assignment %d", assignmentID)
	}

	var dropped int
	for _, rm := range maps {
		n, err := svc.repo.CountResponses(ctx, rm.ID)
		if err != nil {
			return dropped, errors.Wrapf(err, "counting responses of review map %d", rm.ID)
		}
		if n > 0 {
			continue
		}
		if err = svc.repo.DeleteResponseMap(ctx, rm.ID); err != nil {
			return dropped, errors.Wrapf(err, "deleting review map %d", rm.ID)
		}
		dropped++
		svc.logger.Info(fmt.Sprintf("dropped outstanding review map %d of assignment %d", rm.ID, assignmentID))
	}
	return dropped, nil
}
