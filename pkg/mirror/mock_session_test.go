// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mirror

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"github.com/walteh/ftpmirror/pkg/session"
)

// mockSession records calls with testify. Store reads the whole reader so
// expectations can match on the uploaded content.
type mockSession struct {
	mock.Mock
}

var _ session.Session = (*mockSession)(nil)

func (m *mockSession) MakeDir(ctx context.Context, path string) error {
	return m.Called(path).Error(0)
}

func (m *mockSession) Store(ctx context.Context, path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return m.Called(path, string(data)).Error(0)
}

func (m *mockSession) Quit(ctx context.Context) error {
	return m.Called().Error(0)
}
