// Package users loads user skill profiles and exposes them as flat
// (user, skill, rating) selections for scoring.
//
// The on-disk profile format is one JSON document per user: an email plus
// selected level-3 skills, each with a proficiency rating and the level-4
// technologies chosen beneath it. Level-4 selections inherit the rating of
// their level-3 parent.
package users
