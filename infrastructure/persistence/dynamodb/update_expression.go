package dynamodb

import (
	"blog-backend/domain/core/valueobjects"
	"blog-backend/infrastructure/persistence/records"
	pkgerrors "blog-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
)

// buildUpdateExpression turns a change set into a SET expression guarded by the stored owner.
// Clauses follow the order of changes, so equal inputs always build equal expressions.
func buildUpdateExpression(owner string, changes valueobjects.PostChanges) (expression.Expression, error) {
	if changes.IsEmpty() {
		return expression.Expression{}, pkgerrors.NewValidationError("update requires at least one attribute")
	}

	var update expression.UpdateBuilder
	for _, c := range changes.Changes() {
		update = update.Set(expression.Name(string(c.Field)), expression.Value(c.Value))
	}

	return expression.NewBuilder().
		WithUpdate(update).
		WithCondition(ownerCondition(owner)).
		Build()
}

// ownerCondition holds only while the stored item exists and belongs to owner
func ownerCondition(owner string) expression.ConditionBuilder {
	return expression.Name(records.AttrOwner).Equal(expression.Value(owner))
}
