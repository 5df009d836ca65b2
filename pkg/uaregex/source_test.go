package uaregex_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uakit/pkg/uaregex"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func TestOpen_Embedded(t *testing.T) {
	t.Parallel()

	p, err := uaregex.Open(context.Background(), "")
	require.NoError(t, err)

	def, err := uaregex.Default()
	require.NoError(t, err)
	assert.Equal(t, def.Rules(), p.Rules())
}

func TestOpen_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "regexes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customDB), 0o600))

	p, err := uaregex.Open(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Rules().UserAgent)

	_, err = uaregex.Open(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, uaregex.ErrSourceNotFound)
}

func TestOpen_S3(t *testing.T) {
	t.Parallel()

	t.Run("downloads object", func(t *testing.T) {
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return *in.Bucket == "patterns" && *in.Key == "ua/regexes.yaml"
		})).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(customDB))}, nil)

		p, err := uaregex.Open(context.Background(), "s3://patterns/ua/regexes.yaml", uaregex.WithS3Client(client))
		require.NoError(t, err)
		assert.Equal(t, 1, p.Rules().OS)
		client.AssertExpectations(t)
	})

	t.Run("maps errors", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want error
		}{
			{"no such key", &types.NoSuchKey{}, uaregex.ErrSourceNotFound},
			{"no such bucket", &types.NoSuchBucket{}, uaregex.ErrSourceNotFound},
			{"access denied", &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}, uaregex.ErrAccessDenied},
			{"other", &smithy.GenericAPIError{Code: "InternalError"}, uaregex.ErrSourceUnavailable},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				client := &MockS3Client{}
				client.On("GetObject", mock.Anything, mock.Anything).Return(nil, tt.err)

				_, err := uaregex.OpenSource(context.Background(), "s3://patterns/regexes.yaml", uaregex.WithS3Client(client))
				assert.ErrorIs(t, err, tt.want)
			})
		}
	})

	t.Run("rejects incomplete reference", func(t *testing.T) {
		client := &MockS3Client{}
		_, err := uaregex.OpenSource(context.Background(), "s3://patterns", uaregex.WithS3Client(client))
		assert.ErrorIs(t, err, uaregex.ErrInvalidSourceURL)
		client.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything)
	})
}
