// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bumpy-tools/bump/refactor"
)

// migrate runs rules over a project made of files and returns the
// rewritten text of every file.
func migrate(t *testing.T, files map[string]string, rules []refactor.Rule, target string) map[string]string {
	t.Helper()
	root := t.TempDir()
	for name, text := range files {
		file := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o777))
		require.NoError(t, os.WriteFile(file, []byte(text), 0o666))
	}
	names, err := refactor.Discover(root, nil)
	require.NoError(t, err)
	report, err := refactor.Run(context.Background(), refactor.Options{
		Root:          root,
		Files:         names,
		Rules:         rules,
		Jobs:          2,
		Diff:          true,
		TargetVersion: target,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	require.Zero(t, report.Errored(), "errors: %v", report.Errors())

	out := make(map[string]string)
	for name, text := range files {
		out[name] = text
	}
	for _, o := range report.Outcomes {
		if o.Status == refactor.DiffEmitted {
			out[o.Name] = string(o.Text)
		}
	}
	return out
}

func only(t *testing.T, ids ...refactor.RuleID) []refactor.Rule {
	t.Helper()
	var list []refactor.Rule
	for _, id := range ids {
		r, ok := Lookup(id)
		require.True(t, ok, "rule %s", id)
		list = append(list, r)
	}
	return list
}

var ruleTests = []struct {
	name   string
	rules  []refactor.RuleID // nil means all rules
	target string
	in     string
	out    string
}{
	{
		name:  "default none",
		rules: []refactor.RuleID{"BP001"},
		in: `from typing import Any, Optional, Union

from pydantic import BaseModel, Field


class A(BaseModel):
    a: Optional[int]
    b: Union[int, None]
    c: Any
    d: int | None
    e: Optional[int] = Field()
    f: Optional[int] = Field(description="f")
    g: Optional[int] = Field(1)
    h: Optional[int] = Field(default_factory=list)
    i: int


class B:
    a: Optional[int]
`,
		out: `from typing import Any, Optional, Union

from pydantic import BaseModel, Field


class A(BaseModel):
    a: Optional[int] = None
    b: Union[int, None] = None
    c: Any = None
    d: int | None = None
    e: Optional[int] = Field(None)
    f: Optional[int] = Field(None, description="f")
    g: Optional[int] = Field(1)
    h: Optional[int] = Field(default_factory=list)
    i: int


class B:
    a: Optional[int]
`,
	},
	{
		name:  "default none nested sibling",
		rules: []refactor.RuleID{"BP001"},
		in: `from typing import Optional

from pydantic import BaseModel


class Outer(BaseModel):
    class Inner(BaseModel):
        a: Optional[int]

    class Sibling(Inner):
        b: Optional[int]


class Leaf(Outer.Sibling):
    c: Optional[int]
`,
		out: `from typing import Optional

from pydantic import BaseModel


class Outer(BaseModel):
    class Inner(BaseModel):
        a: Optional[int] = None

    class Sibling(Inner):
        b: Optional[int] = None


class Leaf(Outer.Sibling):
    c: Optional[int] = None
`,
	},
	{
		name: "config",
		in: `from pydantic import BaseModel


class A(BaseModel):
    class Config:
        orm_mode = True
        validate_all = True
`,
		out: `from pydantic import ConfigDict, BaseModel


class A(BaseModel):
    model_config = ConfigDict(from_attributes=True, validate_default=True)
`,
	},
	{
		name: "config removed keys and extra",
		in: `from pydantic import BaseModel, Extra


class A(BaseModel):
    class Config:
        allow_mutation = False
        extra = Extra.forbid
`,
		out: `from pydantic import ConfigDict, BaseModel


class A(BaseModel):
    # TODO[pydantic]: The following keys were removed: ` + "`allow_mutation`" + `.
    # Check https://docs.pydantic.dev/dev-v2/migration/#changes-to-config for more information.
    model_config = ConfigDict(allow_mutation=False, extra="forbid")
`,
	},
	{
		name: "config inherited sibling",
		in: `from pydantic import BaseModel

from potato import SuperConfig


class A(BaseModel):
    class Config:
        orm_mode = True


class B(BaseModel):
    class Config(SuperConfig):
        orm_mode = True
`,
		out: `from pydantic import ConfigDict, BaseModel

from potato import SuperConfig


class A(BaseModel):
    model_config = ConfigDict(from_attributes=True)


class B(BaseModel):
    # TODO[pydantic]: The ` + "`Config`" + ` class inherits from another class, please create the ` + "`model_config`" + ` manually.
    # Check https://docs.pydantic.dev/dev-v2/migration/#changes-to-config for more information.
    class Config(SuperConfig):
        orm_mode = True
`,
	},
	{
		name:  "config with method",
		rules: []refactor.RuleID{"BP002"},
		in: `from pydantic import BaseModel


class A(BaseModel):
    class Config:
        orm_mode = True

        def f(self):
            pass
`,
		out: `from pydantic import BaseModel


class A(BaseModel):
    # TODO[pydantic]: We couldn't refactor this class, please create the ` + "`model_config`" + ` manually.
    # Check https://docs.pydantic.dev/dev-v2/migration/#changes-to-config for more information.
    class Config:
        orm_mode = True

        def f(self):
            pass
`,
	},
	{
		name:  "config inside method",
		rules: []refactor.RuleID{"BP002"},
		in: `from typing import Type

from pydantic import BaseModel, Extra


class Model(BaseModel):
    class Config:
        extra = Extra.allow

    def __init_subclass__(cls: "Type[Model]", **kwargs: Any) -> None:
        class Config:
            extra = Extra.forbid

        cls.Config = Config  # type: ignore
        super().__init_subclass__(**kwargs)


class Config:
    extra = Extra.allow
`,
		out: `from typing import Type

from pydantic import ConfigDict, BaseModel, Extra


class Model(BaseModel):
    model_config = ConfigDict(extra="allow")

    def __init_subclass__(cls: "Type[Model]", **kwargs: Any) -> None:
        class Config:
            extra = Extra.forbid

        cls.Config = Config  # type: ignore
        super().__init_subclass__(**kwargs)


class Config:
    extra = Extra.allow
`,
	},
	{
		name: "settings",
		in: `from pydantic import BaseModel, BaseSettings, Field


class Settings(BaseSettings):
    api_key: str = Field(..., env="API_KEY")

    class Config:
        orm_mode = True
`,
		out: `from pydantic import BaseModel, Field
from pydantic_settings import BaseSettings, SettingsConfigDict


class Settings(BaseSettings):
    api_key: str = Field(..., validation_alias="API_KEY")

    model_config = SettingsConfigDict(from_attributes=True)
`,
	},
	{
		name: "con functions",
		in: `from pydantic import BaseModel, constr, conlist, conint, conbytes, condecimal, confloat, conset


class Potato(BaseModel):
    a: constr(regex='[a-z]+')
    b: conlist(int, min_items=1, max_items=10)
    c: conint(gt=0, lt=10)
    d: conbytes(min_length=1, max_length=10)
    e: condecimal(gt=0, lt=10)
    f: confloat(gt=0, lt=10)
    g: conset(int, min_items=1, max_items=10)
    h: Optional[conint(ge=1, le=4294967295)] = None
    i: dict[str, condecimal(max_digits=10, decimal_places=2)]
`,
		out: `from pydantic import Field, StringConstraints, BaseModel
from decimal import Decimal
from typing import List, Set
from typing_extensions import Annotated


class Potato(BaseModel):
    a: Annotated[str, StringConstraints(pattern='[a-z]+')]
    b: Annotated[List[int], Field(min_length=1, max_length=10)]
    c: Annotated[int, Field(gt=0, lt=10)]
    d: Annotated[bytes, Field(min_length=1, max_length=10)]
    e: Annotated[Decimal, Field(gt=0, lt=10)]
    f: Annotated[float, Field(gt=0, lt=10)]
    g: Annotated[Set[int], Field(min_length=1, max_length=10)]
    h: Optional[Annotated[int, Field(ge=1, le=4294967295)]] = None
    i: dict[str, Annotated[Decimal, Field(max_digits=10, decimal_places=2)]]
`,
	},
	{
		name:  "con functions without field rule",
		rules: []refactor.RuleID{"BP008"},
		in: `from pydantic import BaseModel, conlist


class Potato(BaseModel):
    b: conlist(int, min_items=1)
`,
		out: `from pydantic import Field, BaseModel
from typing import List
from typing_extensions import Annotated


class Potato(BaseModel):
    b: Annotated[List[int], Field(min_items=1)]
`,
	},
	{
		name:   "constr before string constraints",
		rules:  []refactor.RuleID{"BP008"},
		target: "v2.0.0",
		in: `from pydantic import BaseModel, constr


class Potato(BaseModel):
    a: constr(regex='[a-z]+', max_length=3)
`,
		out: `from pydantic import BaseModel, constr


class Potato(BaseModel):
    a: constr(pattern='[a-z]+', max_length=3)
`,
	},
	{
		name:  "field keywords",
		rules: []refactor.RuleID{"BP003"},
		in: `from typing import List

from pydantic import BaseModel, Field


class A(BaseModel):
    a: List[str] = Field(..., description="My description", min_items=1)
    b: int = Field(1, allow_mutation=False)
    c: str = Field(..., env="C")
`,
		out: `from typing import List

from pydantic import BaseModel, Field


class A(BaseModel):
    a: List[str] = Field(..., description="My description", min_length=1)
    b: int = Field(1, frozen=False)
    c: str = Field(..., env="C")
`,
	},
	{
		name:  "moved import",
		rules: []refactor.RuleID{"BP004"},
		in: `from pydantic import BaseSettings


class Settings(BaseSettings):
    a: int
`,
		out: `from pydantic_settings import BaseSettings


class Settings(BaseSettings):
    a: int
`,
	},
	{
		name:  "moved import alias",
		rules: []refactor.RuleID{"BP004"},
		in: `import os
from pydantic import BaseModel, Color as C


class A(BaseModel):
    c: C
`,
		out: `import os
from pydantic import BaseModel
from pydantic_extra_types.color import Color as C


class A(BaseModel):
    c: C
`,
	},
	{
		name: "generic model",
		in: `from typing import Generic, TypeVar

from pydantic.generics import GenericModel

T = TypeVar("T")


class Response(GenericModel, Generic[T]):
    data: T
`,
		out: `from typing import Generic, TypeVar
from pydantic import BaseModel


T = TypeVar("T")


class Response(BaseModel, Generic[T]):
    data: T
`,
	},
	{
		name: "generic noop",
		in: `from typing import Generic, TypeVar

T = TypeVar('T')


class Potato(Generic[T]):
    pass
`,
		out: `from typing import Generic, TypeVar

T = TypeVar('T')


class Potato(Generic[T]):
    pass
`,
	},
	{
		name: "root model",
		in: `from pydantic import BaseModel


class A(BaseModel):
    __root__ = int
`,
		out: `from pydantic import RootModel


class A(RootModel[int]):
    pass
`,
	},
	{
		name:  "root model annotated",
		rules: []refactor.RuleID{"BP006"},
		in: `import pydantic
from typing import List


class A(pydantic.BaseModel):
    """Numbers."""

    __root__: List[int]
`,
		out: `from typing import List
from pydantic import RootModel


class A(RootModel[List[int]]):
    """Numbers."""

`,
	},
	{
		name: "validators",
		in: `from pydantic import BaseModel, validator, root_validator


class A(BaseModel):
    a: int
    b: str

    @validator('a')
    def validate_a(cls, v):
        return v + 1

    @root_validator()
    def validate_b(cls, values):
        return values
`,
		out: `from pydantic import field_validator, model_validator, BaseModel


class A(BaseModel):
    a: int
    b: str

    @field_validator('a')
    @classmethod
    def validate_a(cls, v):
        return v + 1

    @model_validator()
    @classmethod
    def validate_b(cls, values):
        return values
`,
	},
	{
		name:  "validator modes",
		rules: []refactor.RuleID{"BP007"},
		in: `import typing as t

from pydantic import BaseModel, validator, root_validator


class Potato(BaseModel):
    name: str
    dialect: str

    @validator("name", "dialect", pre=True)
    @classmethod
    def _string_validator(cls, v: t.Any) -> t.Optional[str]:
        return str(v).lower() if v is not None else None

    @root_validator(pre=True, allow_reuse=True)
    def _normalize_fields(cls, values: t.Dict[str, t.Any]) -> t.Dict[str, t.Any]:
        return values
`,
		out: `import typing as t

from pydantic import field_validator, model_validator, BaseModel


class Potato(BaseModel):
    name: str
    dialect: str

    @field_validator("name", "dialect", mode="before")
    @classmethod
    def _string_validator(cls, v: t.Any) -> t.Optional[str]:
        return str(v).lower() if v is not None else None

    @model_validator(mode="before")
    @classmethod
    def _normalize_fields(cls, values: t.Dict[str, t.Any]) -> t.Dict[str, t.Any]:
        return values
`,
	},
	{
		name:  "validator unsupported",
		rules: []refactor.RuleID{"BP007"},
		in: `import typing as t

from pydantic import BaseModel, validator


class Potato(BaseModel):
    name: str

    @validator("name")
    def _string_validator(cls, v: t.Any, values: t.Dict[str, t.Any], **kwargs) -> t.Optional[str]:
        return v
`,
		out: `import typing as t

from pydantic import BaseModel, validator


class Potato(BaseModel):
    name: str

    # TODO[pydantic]: We couldn't refactor the ` + "`validator`" + `, please replace it by ` + "`field_validator`" + ` manually.
    # Check https://docs.pydantic.dev/dev-v2/migration/#changes-to-validators for more information.
    @validator("name")
    def _string_validator(cls, v: t.Any, values: t.Dict[str, t.Any], **kwargs) -> t.Optional[str]:
        return v
`,
	},
	{
		name:  "validator reuse untouched",
		rules: []refactor.RuleID{"BP007"},
		in: `from pydantic import validator

expression_validator = validator(
    "query",
    pre=True,
    allow_reuse=True,
)(parse_expression)
`,
		out: `from pydantic import validator

expression_validator = validator(
    "query",
    pre=True,
    allow_reuse=True,
)(parse_expression)
`,
	},
}

func TestRules(t *testing.T) {
	for _, tt := range ruleTests {
		t.Run(tt.name, func(t *testing.T) {
			rules := All()
			if tt.rules != nil {
				rules = only(t, tt.rules...)
			}
			out := migrate(t, map[string]string{"m.py": tt.in}, rules, tt.target)
			assert.Equal(t, tt.out, out["m.py"])
		})
	}
}

func TestRulesIdempotent(t *testing.T) {
	for _, tt := range ruleTests {
		if tt.rules != nil {
			continue
		}
		t.Run(tt.name, func(t *testing.T) {
			out := migrate(t, map[string]string{"m.py": tt.out}, All(), tt.target)
			assert.Equal(t, tt.out, out["m.py"], "second run changed the file")
		})
	}
}

func TestDefaultNoneAcrossFiles(t *testing.T) {
	files := map[string]string{
		"a.py": "from pydantic import BaseModel\n\n\nclass A(BaseModel):\n    a: int\n\n\nclass D:\n    d: int\n",
		"b.py": "from pydantic import BaseModel\nfrom .a import A, D\nfrom typing import Optional\n\n\nclass B(A):\n    b: Optional[int]\n\n\nclass C(D):\n    c: Optional[int]\n",
		"c.py": "from pydantic import BaseModel\nfrom .d import D\n\n\nclass C(D):\n    c: Optional[int]\n",
		"d.py": "from pydantic import BaseModel\n\n\nclass D(BaseModel):\n    d: int\n",
	}
	out := migrate(t, files, All(), "")
	assert.Equal(t, files["a.py"], out["a.py"])
	assert.Equal(t, files["d.py"], out["d.py"])
	assert.Equal(t, strings.Replace(files["b.py"], "b: Optional[int]", "b: Optional[int] = None", 1), out["b.py"])
	assert.Equal(t, strings.Replace(files["c.py"], "c: Optional[int]", "c: Optional[int] = None", 1), out["c.py"])
}

func TestSelect(t *testing.T) {
	var ids []refactor.RuleID
	for _, r := range All() {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []refactor.RuleID{"BP001", "BP002", "BP008", "BP003", "BP004", "BP005", "BP006", "BP007"}, ids)

	list, err := Select([]string{"bp003", " BP008", ""})
	require.NoError(t, err)
	ids = ids[:0]
	for _, r := range list {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []refactor.RuleID{"BP001", "BP002", "BP004", "BP005", "BP006", "BP007"}, ids)

	_, err = Select([]string{"BP999"})
	assert.EqualError(t, err, "unknown rule BP999")
}

func TestDocs(t *testing.T) {
	for _, r := range All() {
		assert.NotEmpty(t, r.Doc(), "rule %s", r.ID())
	}
}
