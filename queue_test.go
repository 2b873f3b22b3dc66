package rsmq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQueue_Defaults(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	require.NoError(t, r.CreateQueue(ctx, "jobs", CreateQueueParams{}))

	attrs, err := r.GetQueueAttributes(ctx, "jobs")
	require.NoError(t, err)
	assert.EqualValues(t, defaultVt, attrs.Vt)
	assert.EqualValues(t, defaultDelay, attrs.Delay)
	assert.EqualValues(t, defaultMaxsize, attrs.Maxsize)
	assert.EqualValues(t, 0, attrs.Msgs)
	assert.EqualValues(t, 0, attrs.TotalSent)
}

func TestCreateQueue_Overrides(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	vt, delay, maxsize := int64(60), int64(5), int64(2048)
	require.NoError(t, r.CreateQueue(ctx, "jobs", CreateQueueParams{Vt: &vt, Delay: &delay, Maxsize: &maxsize}))

	attrs, err := r.GetQueueAttributes(ctx, "jobs")
	require.NoError(t, err)
	assert.EqualValues(t, 60, attrs.Vt)
	assert.EqualValues(t, 5, attrs.Delay)
	assert.EqualValues(t, 2048, attrs.Maxsize)
}

func TestCreateQueue_DuplicateFails(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	require.NoError(t, r.CreateQueue(ctx, "jobs", CreateQueueParams{}))
	err := r.CreateQueue(ctx, "jobs", CreateQueueParams{})
	require.Error(t, err)
	assert.True(t, IsQueueExists(err))
}

func TestCreateQueue_InvalidQname(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	err := r.CreateQueue(ctx, "has a space", CreateQueueParams{})
	require.Error(t, err)
	assert.True(t, IsInvalidValue(err))
}

func TestCreateQueue_InvalidVt(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	bad := int64(-1)
	err := r.CreateQueue(ctx, "jobs", CreateQueueParams{Vt: &bad})
	require.Error(t, err)
	assert.True(t, IsInvalidValue(err))
}

func TestCreateQueue_MaxsizeUnlimited(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	unlimited := int64(-1)
	require.NoError(t, r.CreateQueue(ctx, "jobs", CreateQueueParams{Maxsize: &unlimited}))

	attrs, err := r.GetQueueAttributes(ctx, "jobs")
	require.NoError(t, err)
	assert.EqualValues(t, -1, attrs.Maxsize)
}

func TestDeleteQueue(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	require.NoError(t, r.CreateQueue(ctx, "jobs", CreateQueueParams{}))
	require.NoError(t, r.DeleteQueue(ctx, "jobs"))

	_, err := r.GetQueueAttributes(ctx, "jobs")
	require.Error(t, err)
	assert.True(t, IsQueueNotFound(err))
}

func TestDeleteQueue_NotFound(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	err := r.DeleteQueue(ctx, "ghost")
	require.Error(t, err)
	assert.True(t, IsQueueNotFound(err))
}

func TestListQueues(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	alpha := randomQueueName(t, "alpha")
	beta := randomQueueName(t, "beta")
	require.NoError(t, r.CreateQueue(ctx, alpha, CreateQueueParams{}))
	require.NoError(t, r.CreateQueue(ctx, beta, CreateQueueParams{}))

	names, err := r.ListQueues(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alpha, beta}, names)
}

func TestGetQueueAttributes_NotFound(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	_, err := r.GetQueueAttributes(ctx, "ghost")
	require.Error(t, err)
	assert.True(t, IsQueueNotFound(err))
}

func TestSetQueueAttributes_NoFieldsSupplied(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	require.NoError(t, r.CreateQueue(ctx, "jobs", CreateQueueParams{}))
	_, err := r.SetQueueAttributes(ctx, "jobs", SetQueueAttributesParams{})
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindNoAttributeSupplied, rerr.Kind)
}

func TestSetQueueAttributes_PartialUpdate(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	require.NoError(t, r.CreateQueue(ctx, "jobs", CreateQueueParams{}))

	vt := int64(90)
	attrs, err := r.SetQueueAttributes(ctx, "jobs", SetQueueAttributesParams{Vt: &vt})
	require.NoError(t, err)
	assert.EqualValues(t, 90, attrs.Vt)
	// Untouched fields keep their prior values.
	assert.EqualValues(t, defaultDelay, attrs.Delay)
	assert.EqualValues(t, defaultMaxsize, attrs.Maxsize)
}

func TestSetQueueAttributes_NotFound(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	vt := int64(90)
	_, err := r.SetQueueAttributes(ctx, "ghost", SetQueueAttributesParams{Vt: &vt})
	require.Error(t, err)
	assert.True(t, IsQueueNotFound(err))
}

func TestGetQueueAttributes_CountsHiddenMessages(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	require.NoError(t, r.CreateQueue(ctx, "jobs", CreateQueueParams{}))
	_, err := r.SendMessageBytes(ctx, "jobs", []byte("payload"), nil)
	require.NoError(t, err)

	msg, err := r.ReceiveMessageBytes(ctx, "jobs", nil)
	require.NoError(t, err)
	require.NotNil(t, msg)

	attrs, err := r.GetQueueAttributes(ctx, "jobs")
	require.NoError(t, err)
	assert.EqualValues(t, 1, attrs.Msgs)
	assert.EqualValues(t, 1, attrs.HiddenMsgs)
}
