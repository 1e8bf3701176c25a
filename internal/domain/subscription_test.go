package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanLimitsFor(t *testing.T) {
	cases := []struct {
		plan string
		want PlanLimits
	}{
		{"pro", PlanLimits{MaxClients: 200, MaxWorkoutPlansPerClient: 50, MaxDietPlansPerClient: 50}},
		{"professional", PlanLimits{MaxClients: 200, MaxWorkoutPlansPerClient: 50, MaxDietPlansPerClient: 50}},
		{"PRO", PlanLimits{MaxClients: 200, MaxWorkoutPlansPerClient: 50, MaxDietPlansPerClient: 50}},
		{"basic", PlanLimits{MaxClients: 10, MaxWorkoutPlansPerClient: 5, MaxDietPlansPerClient: 5}},
		{"starter", PlanLimits{MaxClients: 10, MaxWorkoutPlansPerClient: 5, MaxDietPlansPerClient: 5}},
		{"Basic", PlanLimits{MaxClients: 10, MaxWorkoutPlansPerClient: 5, MaxDietPlansPerClient: 5}},
		{"free", PlanLimits{MaxClients: 3, MaxWorkoutPlansPerClient: 2, MaxDietPlansPerClient: 2}},
		{"", PlanLimits{MaxClients: 3, MaxWorkoutPlansPerClient: 2, MaxDietPlansPerClient: 2}},
		{"enterprise", PlanLimits{MaxClients: 3, MaxWorkoutPlansPerClient: 2, MaxDietPlansPerClient: 2}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PlanLimitsFor(tc.plan), "plan %q", tc.plan)
	}
}

func TestRoleSetBypassesOwnership(t *testing.T) {
	assert.False(t, RoleSet{}.BypassesOwnership())
	assert.False(t, NewRoleSet([]RoleRecord{{Name: "user"}}).BypassesOwnership())
	assert.False(t, NewRoleSet([]RoleRecord{{Name: "gym"}}).BypassesOwnership())
	assert.True(t, NewRoleSet([]RoleRecord{{Name: "admin"}}).BypassesOwnership())
	assert.True(t, NewRoleSet([]RoleRecord{{Name: "user"}, {Name: "professional"}}).BypassesOwnership())
}
